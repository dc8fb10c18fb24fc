package tupcodec

import "github.com/cockroachdb/errors"

const (
	// EnvelopeCurrentVersion is the version_at_write this package emits
	// and the highest version_min_required it will accept.
	EnvelopeCurrentVersion uint16 = 1
	// EnvelopeMinVersion is the lowest version_at_write this package can
	// still read.
	EnvelopeMinVersion uint16 = 1

	envelopePreambleSize = 4
	envelopeTrailerSize  = 4
)

// SerializeEnvelopePreamble writes the envelope's version_at_write and
// version_min_required (both currently 1) and returns 4.
func SerializeEnvelopePreamble(buf []byte) int {
	n := SerializeUInt16(EnvelopeCurrentVersion, buf)
	var sub []byte
	if buf != nil {
		sub = buf[n:]
	}
	n += SerializeUInt16(EnvelopeMinVersion, sub)
	return n
}

// SerializeEnvelopePostscript writes the trailing CRC-32 over
// envelope[:size] (preamble and payload together) and returns 4.
func SerializeEnvelopePostscript(envelope []byte, size int, buf []byte) int {
	return SerializeCRC32(envelope, size, buf)
}

// DeserializeEnvelope requires at least 8 bytes, verifies the trailing
// CRC-32 over buf[:bufSize-4], and enforces the version gates: a
// version_at_write below EnvelopeMinVersion is too old, a
// version_min_required above EnvelopeCurrentVersion is too new. It returns
// the number of preamble bytes consumed (4), leaving the caller positioned
// at the payload.
func DeserializeEnvelope(buf []byte) (int, error) {
	if len(buf) < envelopePreambleSize+envelopeTrailerSize {
		return 0, errors.Mark(errors.New("tupcodec: invalid envelope, too short"), ErrBufferTooShort)
	}
	if err := VerifyCRC32(buf, len(buf)-envelopeTrailerSize); err != nil {
		return 0, err
	}

	versionAtWrite, n, err := DeserializeUInt16(buf)
	if err != nil {
		return 0, err
	}
	if versionAtWrite < EnvelopeMinVersion {
		return 0, errors.Mark(errors.Newf("tupcodec: format too old (version %d)", versionAtWrite), ErrFormatTooOld)
	}

	versionMinRequired, m, err := DeserializeUInt16(buf[n:])
	if err != nil {
		return 0, err
	}
	n += m
	if versionMinRequired > EnvelopeCurrentVersion {
		return 0, errors.Mark(errors.Newf("tupcodec: format too new (requires version %d)", versionMinRequired), ErrFormatTooNew)
	}
	return n, nil
}

// ExtractEnvelopeCRC32 reads the trailing 4 bytes of an envelope without
// verifying them.
func ExtractEnvelopeCRC32(buf []byte) (uint32, error) {
	if len(buf) < envelopePreambleSize+envelopeTrailerSize {
		return 0, errors.Mark(errors.New("tupcodec: invalid envelope, too short"), ErrBufferTooShort)
	}
	crc32, _, err := DeserializeUInt32(buf[len(buf)-envelopeTrailerSize:])
	return crc32, err
}
