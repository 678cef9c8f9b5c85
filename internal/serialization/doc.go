// Package serialization saves and loads Scalar state dictionaries in the
// .exact checkpoint format:
//
//	[4 bytes: Magic "EXCT"]
//	[4 bytes: Version (uint32 LE)]
//	[4 bytes: Flags (uint32 LE)]
//	[8 bytes: Header size (uint64 LE)]
//	[32 bytes: SHA-256 of the data section]
//	[Header: JSON metadata]
//	[Padding to a 64-byte boundary]
//	[Tensor data: 8 bytes per Scalar, scalar.Scalar.Bits little-endian]
//
// Values are stored bit for bit, so Undefined causes and signed
// Vanished/Infinite states survive a round trip. Malformed bit patterns in
// a file load as Undefined(Malformed).
//
// Example usage:
//
//	err := serialization.Save("model.exact", model.StateDict(), serialization.Header{ModelType: "Sequential"})
//	stateDict, header, err := serialization.Load("model.exact", serialization.ValidationStrict)
//	err = model.LoadStateDict(stateDict)
package serialization
