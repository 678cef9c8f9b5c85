package serialization

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"sort"
	"time"

	"github.com/born-ml/exact/internal/scalar"
	"github.com/born-ml/exact/internal/tensor"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// encodeData lays out the tensors of stateDict in name order and returns
// their metadata and the data section.
func encodeData(stateDict map[string]*tensor.Tensor) ([]TensorMeta, []byte, error) {
	names := make([]string, 0, len(stateDict))
	total := 0
	for name, t := range stateDict {
		if err := ValidateTensorName(name); err != nil {
			return nil, nil, err
		}
		names = append(names, name)
		total += t.NumElements() * scalar.EncodedSize
	}
	sort.Strings(names)

	metas := make([]TensorMeta, 0, len(names))
	data := make([]byte, 0, total)
	for _, name := range names {
		t := stateDict[name]
		offset := int64(len(data))
		for _, v := range t.Data() {
			data = binary.LittleEndian.AppendUint64(data, v.Bits())
		}
		metas = append(metas, TensorMeta{
			Name:   name,
			Shape:  []int(t.Shape().Clone()),
			Offset: offset,
			Size:   int64(len(data)) - offset,
		})
	}
	return metas, data, nil
}

// Write encodes stateDict to w. header.Tensors and header.FormatVersion are
// filled in; CreatedAt is set if zero.
func Write(w io.Writer, stateDict map[string]*tensor.Tensor, header Header) error {
	metas, data, err := encodeData(stateDict)
	if err != nil {
		return err
	}
	header.FormatVersion = FormatVersion
	header.Tensors = metas
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "serialization: failed to marshal header")
	}
	if len(headerJSON) > MaxHeaderSize {
		return errors.Wrapf(ErrHeaderTooLarge, "%d bytes", len(headerJSON))
	}

	var flags uint32
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.CheckpointMeta != nil {
		flags |= FlagHasCheckpoint
	}

	prefix := make([]byte, 0, fixedHeaderSize)
	prefix = append(prefix, MagicBytes...)
	prefix = binary.LittleEndian.AppendUint32(prefix, FormatVersion)
	prefix = binary.LittleEndian.AppendUint32(prefix, flags)
	prefix = binary.LittleEndian.AppendUint64(prefix, uint64(len(headerJSON)))
	sum := ComputeChecksum(data)
	prefix = append(prefix, sum[:]...)

	pos := int64(fixedHeaderSize + len(headerJSON))
	padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment

	bw := bufio.NewWriter(w)
	for _, chunk := range [][]byte{prefix, headerJSON, make([]byte, padding), data} {
		if _, err := bw.Write(chunk); err != nil {
			return errors.Wrap(err, "serialization: write failed")
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "serialization: write failed")
	}
	klog.V(1).Infof("serialization: wrote %d tensors, %s of data", len(metas), humanize.Bytes(uint64(len(data))))
	return nil
}

// Save writes stateDict to a new file at path.
func Save(path string, stateDict map[string]*tensor.Tensor, header Header) (err error) {
	//nolint:gosec // G304: path is chosen by the caller
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "serialization: failed to create file")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "serialization: failed to close file")
		}
	}()
	return Write(f, stateDict, header)
}
