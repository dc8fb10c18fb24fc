package tupcodec_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"github.com/tuplestore/tupcodec/tupcodec"
)

func TestColumnTypeRoundTrip(t *testing.T) {
	types := []tupcodec.ColumnType{
		tupcodec.ColumnTypeIndex, tupcodec.ColumnTypeSwitch, tupcodec.ColumnTypeBit,
		tupcodec.ColumnTypeReal64, tupcodec.ColumnTypeReal32, tupcodec.ColumnTypeReal16,
		tupcodec.ColumnTypeInt64, tupcodec.ColumnTypeInt32, tupcodec.ColumnTypeInt16,
		tupcodec.ColumnTypeByte,
	}
	for _, ct := range types {
		buf := make([]byte, 2)
		n, err := tupcodec.SerializeColumnType(ct, buf)
		require.NoError(t, err)
		require.Equal(t, 2, n)

		got, m, err := tupcodec.DeserializeColumnType(buf)
		require.NoError(t, err)
		require.Equal(t, 2, m)
		require.Equal(t, ct, got)
	}
}

func TestDeserializeColumnTypeUnknownTagFails(t *testing.T) {
	buf := make([]byte, 2)
	tupcodec.SerializeUInt16(0xFF, buf)
	_, _, err := tupcodec.DeserializeColumnType(buf)
	require.True(t, errors.Is(err, tupcodec.ErrUnexpectedValue), "err = %v", err)
}

func TestFieldStructureRoundTrip(t *testing.T) {
	structures := []tupcodec.FieldStructure{
		tupcodec.FieldStructureLeaf, tupcodec.FieldStructureCollection,
		tupcodec.FieldStructureRecord, tupcodec.FieldStructureVariant,
		tupcodec.FieldStructureReference,
	}
	for _, s := range structures {
		buf := make([]byte, 2)
		n, err := tupcodec.SerializeFieldStructure(s, buf)
		require.NoError(t, err)
		require.Equal(t, 2, n)

		got, m, err := tupcodec.DeserializeFieldStructure(buf)
		require.NoError(t, err)
		require.Equal(t, 2, m)
		require.Equal(t, s, got)
	}
}

func TestBitsOnStorage(t *testing.T) {
	cases := map[tupcodec.ColumnType]uint16{
		tupcodec.ColumnTypeBit:   1,
		tupcodec.ColumnTypeByte:  8,
		tupcodec.ColumnTypeInt16: 16,
		tupcodec.ColumnTypeIndex: 32,
		tupcodec.ColumnTypeInt64: 64,
	}
	for ct, want := range cases {
		got, err := ct.BitsOnStorage()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}
