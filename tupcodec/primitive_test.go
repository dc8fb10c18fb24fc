package tupcodec_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/tuplestore/tupcodec/tupcodec"
)

func TestSerializeUInt32RoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	n := tupcodec.SerializeUInt32(0x0A0B0C0D, buf)
	require.Equal(t, 4, n)
	require.Equal(t, []byte{0x0D, 0x0C, 0x0B, 0x0A}, buf)

	got, m, err := tupcodec.DeserializeUInt32(buf)
	require.NoError(t, err)
	require.Equal(t, 4, m)
	require.Equal(t, uint32(0x0A0B0C0D), got)
}

func TestSerializeIntegersSizeOnlyMatchesRealEmit(t *testing.T) {
	dry := tupcodec.SerializeInt64(-42, nil)
	buf := make([]byte, dry)
	real := tupcodec.SerializeInt64(-42, buf)
	require.Equal(t, dry, real)

	got, n, err := tupcodec.DeserializeInt64(buf)
	require.NoError(t, err)
	require.Equal(t, dry, n)
	require.Equal(t, int64(-42), got)
}

func TestDeserializeUInt16TooShort(t *testing.T) {
	_, _, err := tupcodec.DeserializeUInt16([]byte{0x01})
	require.True(t, errors.Is(err, tupcodec.ErrBufferTooShort), "err = %v", err)
}

func TestSerializeStringRoundTrip(t *testing.T) {
	buf := make([]byte, 6)
	n := tupcodec.SerializeString("hi", buf)
	require.Equal(t, 6, n)
	require.Equal(t, []byte{0x02, 0x00, 0x00, 0x00, 'h', 'i'}, buf)

	got, m, err := tupcodec.DeserializeString(buf)
	require.NoError(t, err)
	require.Equal(t, 6, m)
	require.Equal(t, "hi", got)
}

func TestSerializeStringEmptyAndWithNUL(t *testing.T) {
	for _, s := range []string{"", "a\x00b", "\x00\x00\x00"} {
		n := tupcodec.SerializeString(s, nil)
		buf := make([]byte, n)
		tupcodec.SerializeString(s, buf)
		got, m, err := tupcodec.DeserializeString(buf)
		require.NoError(t, err)
		require.Equal(t, n, m)
		require.Equal(t, s, got)
	}
}

func TestDeserializeStringTooShort(t *testing.T) {
	buf := []byte{0x05, 0x00, 0x00, 0x00, 'a', 'b'}
	_, _, err := tupcodec.DeserializeString(buf)
	require.True(t, errors.Is(err, tupcodec.ErrBufferTooShort), "err = %v", err)
}

func TestVerifyCRC32(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00}
	buf := make([]byte, 8)
	copy(buf, data)
	tupcodec.SerializeCRC32(buf, 4, buf[4:])

	require.NoError(t, tupcodec.VerifyCRC32(buf, 4))

	buf[0] ^= 0xFF
	require.True(t, errors.Is(tupcodec.VerifyCRC32(buf, 4), tupcodec.ErrChecksumMismatch))
}
