package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"

	"github.com/born-ml/exact/internal/scalar"
	"github.com/born-ml/exact/internal/tensor"
	"github.com/pkg/errors"
)

// Read decodes a state dictionary from r. With ValidationStrict the data
// checksum and tensor offsets are verified.
func Read(r io.Reader, level ValidationLevel) (map[string]*tensor.Tensor, Header, error) {
	var header Header
	prefix := make([]byte, fixedHeaderSize)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return nil, header, errors.Wrap(err, "serialization: failed to read fixed header")
	}
	if string(prefix[:4]) != MagicBytes {
		return nil, header, errors.Wrapf(ErrInvalidMagic, "got %q", prefix[:4])
	}
	if v := binary.LittleEndian.Uint32(prefix[4:8]); v != FormatVersion {
		return nil, header, errors.Wrapf(ErrUnsupportedVersion, "version %d", v)
	}
	headerSize := binary.LittleEndian.Uint64(prefix[12:20])
	if headerSize > MaxHeaderSize {
		return nil, header, errors.Wrapf(ErrHeaderTooLarge, "%d bytes", headerSize)
	}
	var stored [ChecksumSize]byte
	copy(stored[:], prefix[20:])

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, header, errors.Wrap(err, "serialization: failed to read header")
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, header, errors.Wrap(err, "serialization: failed to parse header")
	}

	pos := int64(fixedHeaderSize) + int64(headerSize)
	padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment
	if _, err := io.CopyN(io.Discard, r, padding); err != nil {
		return nil, header, errors.Wrap(err, "serialization: failed to skip padding")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, header, errors.Wrap(err, "serialization: failed to read data")
	}

	if level == ValidationStrict {
		if err := ValidateChecksum(ComputeChecksum(data), stored); err != nil {
			return nil, header, err
		}
	}
	if err := ValidateHeader(&header, int64(len(data)), level); err != nil {
		return nil, header, err
	}

	stateDict := make(map[string]*tensor.Tensor, len(header.Tensors))
	for _, meta := range header.Tensors {
		t, err := decodeTensor(meta, data)
		if err != nil {
			return nil, header, err
		}
		stateDict[meta.Name] = t
	}
	return stateDict, header, nil
}

func decodeTensor(meta TensorMeta, data []byte) (*tensor.Tensor, error) {
	if !inBounds(meta.Offset, meta.Size, int64(len(data))) || meta.Size%scalar.EncodedSize != 0 {
		return nil, &ValidationError{Type: "out_of_bounds", Tensor: meta.Name, Details: "region outside data section"}
	}
	raw := data[meta.Offset : meta.Offset+meta.Size]
	values := make([]scalar.Scalar, len(raw)/scalar.EncodedSize)
	for i := range values {
		bits := binary.LittleEndian.Uint64(raw[i*scalar.EncodedSize:])
		values[i] = scalar.FromBits(bits).Canonical()
	}
	t, err := tensor.New(tensor.Shape(meta.Shape), values)
	if err != nil {
		return nil, errors.WithMessagef(err, "serialization: tensor %q", meta.Name)
	}
	return t, nil
}

// Load reads a state dictionary from the file at path.
func Load(path string, level ValidationLevel) (map[string]*tensor.Tensor, Header, error) {
	//nolint:gosec // G304: path is chosen by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, Header{}, errors.Wrap(err, "serialization: failed to read file")
	}
	return Read(bytes.NewReader(content), level)
}
