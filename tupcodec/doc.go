// Package tupcodec implements the binary serializer/deserializer for a
// columnar tuple storage format: a self-describing, length-prefixed,
// CRC-protected byte stream organized into envelopes and frames, plus the
// two-phase streaming serialization that assigns stable physical
// identifiers to fields, columns, and clusters while walking a descriptor
// breadth-first.
//
// Serialization follows the two-pass pattern used throughout this package:
// every Serialize* function accepts a nil buffer to compute the number of
// bytes it would write, and a non-nil buffer to actually write them,
// always returning the byte count either way (SerializeFramePostscript,
// which writes no new bytes, returns only an error). Deserialize* functions
// expect a buffer that is already known to hold the data and return the
// number of bytes consumed.
//
// The package is byte-transparent and has no opinion about where the
// bytes end up; callers own buffers, files, and compression.
package tupcodec
