package tupcodec

import "github.com/cockroachdb/errors"

// ColumnType identifies the physical on-disk representation of a column's
// values, distinct from any in-memory enum numbering so that extending the
// in-memory enum can never silently shift the wire format.
type ColumnType uint8

// Column types, tagged with their stable on-disk values.
const (
	ColumnTypeIndex  ColumnType = 0x02
	ColumnTypeSwitch ColumnType = 0x03
	ColumnTypeBit    ColumnType = 0x06
	ColumnTypeReal64 ColumnType = 0x07
	ColumnTypeReal32 ColumnType = 0x08
	ColumnTypeReal16 ColumnType = 0x09
	ColumnTypeInt64  ColumnType = 0x0A
	ColumnTypeInt32  ColumnType = 0x0B
	ColumnTypeInt16  ColumnType = 0x0C
	ColumnTypeByte   ColumnType = 0x0D
)

// BitsOnStorage returns the per-element width of t when packed on disk, the
// value a column-element helper would report for computing page sizes.
func (t ColumnType) BitsOnStorage() (uint16, error) {
	switch t {
	case ColumnTypeBit:
		return 1, nil
	case ColumnTypeByte:
		return 8, nil
	case ColumnTypeReal16, ColumnTypeInt16:
		return 16, nil
	case ColumnTypeIndex, ColumnTypeSwitch, ColumnTypeReal32, ColumnTypeInt32:
		return 32, nil
	case ColumnTypeReal64, ColumnTypeInt64:
		return 64, nil
	default:
		return 0, errors.Mark(errors.Newf("tupcodec: unexpected column type %#x", uint8(t)), ErrUnexpectedValue)
	}
}

// SerializeColumnType writes t's stable on-disk tag as a little-endian
// uint16 and returns 2.
func SerializeColumnType(t ColumnType, buf []byte) (int, error) {
	switch t {
	case ColumnTypeIndex, ColumnTypeSwitch, ColumnTypeBit, ColumnTypeReal64, ColumnTypeReal32,
		ColumnTypeReal16, ColumnTypeInt64, ColumnTypeInt32, ColumnTypeInt16, ColumnTypeByte:
		return SerializeUInt16(uint16(t), buf), nil
	default:
		return 0, errors.Mark(errors.Newf("tupcodec: unexpected column type %#x", uint8(t)), ErrUnexpectedValue)
	}
}

// DeserializeColumnType reads a little-endian uint16 on-disk tag and maps
// it back to a ColumnType, failing if the tag is not in the table.
func DeserializeColumnType(buf []byte) (ColumnType, int, error) {
	tag, n, err := DeserializeUInt16(buf)
	if err != nil {
		return 0, 0, err
	}
	switch ColumnType(tag) {
	case ColumnTypeIndex, ColumnTypeSwitch, ColumnTypeBit, ColumnTypeReal64, ColumnTypeReal32,
		ColumnTypeReal16, ColumnTypeInt64, ColumnTypeInt32, ColumnTypeInt16, ColumnTypeByte:
		return ColumnType(tag), n, nil
	default:
		return 0, 0, errors.Mark(errors.Newf("tupcodec: unexpected on-disk column type %#x", tag), ErrUnexpectedValue)
	}
}

// FieldStructure identifies the logical shape of a field: a scalar leaf, a
// collection of repeated entries, a fixed-shape record, a tagged union
// (variant), or a reference to another field.
type FieldStructure uint8

// Field structures, tagged with their stable on-disk values.
const (
	FieldStructureLeaf       FieldStructure = 0x00
	FieldStructureCollection FieldStructure = 0x01
	FieldStructureRecord     FieldStructure = 0x02
	FieldStructureVariant    FieldStructure = 0x03
	FieldStructureReference  FieldStructure = 0x04
)

// SerializeFieldStructure writes s's stable on-disk tag as a little-endian
// uint16 and returns 2.
func SerializeFieldStructure(s FieldStructure, buf []byte) (int, error) {
	switch s {
	case FieldStructureLeaf, FieldStructureCollection, FieldStructureRecord, FieldStructureVariant, FieldStructureReference:
		return SerializeUInt16(uint16(s), buf), nil
	default:
		return 0, errors.Mark(errors.Newf("tupcodec: unexpected field structure %#x", uint8(s)), ErrUnexpectedValue)
	}
}

// DeserializeFieldStructure reads a little-endian uint16 on-disk tag and
// maps it back to a FieldStructure, failing if the tag is not in the table.
func DeserializeFieldStructure(buf []byte) (FieldStructure, int, error) {
	tag, n, err := DeserializeUInt16(buf)
	if err != nil {
		return 0, 0, err
	}
	switch FieldStructure(tag) {
	case FieldStructureLeaf, FieldStructureCollection, FieldStructureRecord, FieldStructureVariant, FieldStructureReference:
		return FieldStructure(tag), n, nil
	default:
		return 0, 0, errors.Mark(errors.Newf("tupcodec: unexpected on-disk field structure %#x", tag), ErrUnexpectedValue)
	}
}
