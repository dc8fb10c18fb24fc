package tupcodec

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/tuplestore/tupcodec/internal/crc"
)

// SerializeInt16 writes val as a little-endian two's-complement int16 into
// buf and returns 2. If buf is nil, nothing is written but 2 is still
// returned, enabling a size-only dry run.
func SerializeInt16(val int16, buf []byte) int {
	if buf != nil {
		binary.LittleEndian.PutUint16(buf, uint16(val))
	}
	return 2
}

// DeserializeInt16 reads a little-endian int16 from buf and returns the
// number of bytes consumed (2).
func DeserializeInt16(buf []byte) (int16, int, error) {
	if len(buf) < 2 {
		return 0, 0, errors.Mark(errors.Newf("tupcodec: need 2 bytes for int16, have %d", len(buf)), ErrBufferTooShort)
	}
	return int16(binary.LittleEndian.Uint16(buf)), 2, nil
}

// SerializeUInt16 writes val as a little-endian uint16 into buf and
// returns 2.
func SerializeUInt16(val uint16, buf []byte) int {
	return SerializeInt16(int16(val), buf)
}

// DeserializeUInt16 reads a little-endian uint16 from buf.
func DeserializeUInt16(buf []byte) (uint16, int, error) {
	v, n, err := DeserializeInt16(buf)
	return uint16(v), n, err
}

// SerializeInt32 writes val as a little-endian two's-complement int32 into
// buf and returns 4.
func SerializeInt32(val int32, buf []byte) int {
	if buf != nil {
		binary.LittleEndian.PutUint32(buf, uint32(val))
	}
	return 4
}

// DeserializeInt32 reads a little-endian int32 from buf.
func DeserializeInt32(buf []byte) (int32, int, error) {
	if len(buf) < 4 {
		return 0, 0, errors.Mark(errors.Newf("tupcodec: need 4 bytes for int32, have %d", len(buf)), ErrBufferTooShort)
	}
	return int32(binary.LittleEndian.Uint32(buf)), 4, nil
}

// SerializeUInt32 writes val as a little-endian uint32 into buf and
// returns 4.
func SerializeUInt32(val uint32, buf []byte) int {
	return SerializeInt32(int32(val), buf)
}

// DeserializeUInt32 reads a little-endian uint32 from buf.
func DeserializeUInt32(buf []byte) (uint32, int, error) {
	v, n, err := DeserializeInt32(buf)
	return uint32(v), n, err
}

// SerializeInt64 writes val as a little-endian two's-complement int64 into
// buf and returns 8.
func SerializeInt64(val int64, buf []byte) int {
	if buf != nil {
		binary.LittleEndian.PutUint64(buf, uint64(val))
	}
	return 8
}

// DeserializeInt64 reads a little-endian int64 from buf.
func DeserializeInt64(buf []byte) (int64, int, error) {
	if len(buf) < 8 {
		return 0, 0, errors.Mark(errors.Newf("tupcodec: need 8 bytes for int64, have %d", len(buf)), ErrBufferTooShort)
	}
	return int64(binary.LittleEndian.Uint64(buf)), 8, nil
}

// SerializeUInt64 writes val as a little-endian uint64 into buf and
// returns 8.
func SerializeUInt64(val uint64, buf []byte) int {
	return SerializeInt64(int64(val), buf)
}

// DeserializeUInt64 reads a little-endian uint64 from buf.
func DeserializeUInt64(buf []byte) (uint64, int, error) {
	v, n, err := DeserializeInt64(buf)
	return uint64(v), n, err
}

// SerializeString writes val as a uint32 byte length followed by the raw
// bytes of val, with no null terminator and no encoding validation, and
// returns the total number of bytes the encoding occupies.
func SerializeString(val string, buf []byte) int {
	n := SerializeUInt32(uint32(len(val)), buf)
	if buf != nil {
		copy(buf[n:], val)
	}
	return n + len(val)
}

// DeserializeString reads a uint32 length followed by that many raw bytes
// from buf and returns the decoded string plus the total bytes consumed.
func DeserializeString(buf []byte) (string, int, error) {
	length, n, err := DeserializeUInt32(buf)
	if err != nil {
		return "", 0, err
	}
	if uint32(len(buf)-n) < length {
		return "", 0, errors.Mark(
			errors.Newf("tupcodec: string of length %d needs %d bytes, have %d", length, length, len(buf)-n),
			ErrBufferTooShort)
	}
	return string(buf[n : n+int(length)]), n + int(length), nil
}

// SerializeCRC32 always returns 4. When buf is non-nil, it writes the
// CRC-32 of data[:length] as a little-endian uint32.
func SerializeCRC32(data []byte, length int, buf []byte) int {
	if buf != nil {
		checksum := crc.New(data[:length]).Value()
		SerializeUInt32(checksum, buf)
	}
	return 4
}

// VerifyCRC32 recomputes the CRC-32 of data[:length] and compares it
// against the 4 bytes found at data[length:length+4].
func VerifyCRC32(data []byte, length int) error {
	if len(data) < length+4 {
		return errors.Mark(errors.Newf("tupcodec: need %d bytes to verify crc32, have %d", length+4, len(data)), ErrBufferTooShort)
	}
	want := crc.New(data[:length]).Value()
	got, _, err := DeserializeUInt32(data[length : length+4])
	if err != nil {
		return err
	}
	if got != want {
		return errors.Mark(errors.Newf("tupcodec: crc32 mismatch: on-disk %#x, computed %#x", got, want), ErrChecksumMismatch)
	}
	return nil
}
