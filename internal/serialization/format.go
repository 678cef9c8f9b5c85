package serialization

import (
	"time"

	"github.com/born-ml/exact/internal/scalar"
)

// Format constants.
const (
	MagicBytes      = "EXCT"
	FormatVersion   = 1
	HeaderAlignment = 64
	ChecksumSize    = 32
	fixedHeaderSize = 4 + 4 + 4 + 8 + ChecksumSize
)

// Flags for the .exact format.
const (
	FlagHasMetadata   uint32 = 1 << 0 // custom metadata included
	FlagHasCheckpoint uint32 = 1 << 1 // training state included
)

// Header is the JSON header of a .exact file.
type Header struct {
	FormatVersion  int               `json:"format_version"`
	ModelType      string            `json:"model_type"`
	CreatedAt      time.Time         `json:"created_at"`
	Tensors        []TensorMeta      `json:"tensors"`
	Metadata       map[string]string `json:"metadata"`
	CheckpointMeta *CheckpointMeta   `json:"checkpoint,omitempty"`
}

// CheckpointMeta contains training state information for checkpoints.
type CheckpointMeta struct {
	Epoch         int           `json:"epoch"`
	Step          int64         `json:"step"`
	Loss          scalar.Scalar `json:"loss"` // textual form, e.g. "0.125" or "undefined(0/0)"
	OptimizerType string        `json:"optimizer_type"`
	LearningRate  scalar.Scalar `json:"learning_rate"`
}

// TensorMeta describes a tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`   // e.g. "0.weight"
	Shape  []int  `json:"shape"`  // rank 1 or 2
	Offset int64  `json:"offset"` // bytes from the start of the data section
	Size   int64  `json:"size"`   // bytes, scalar.EncodedSize per element
}
