package tupcodec

// Field and column flag bits, part of the wire format.
const (
	fieldFlagRepetitive uint16 = 0x01

	columnFlagSortAscending uint32 = 0x01
	columnFlagNonNegative   uint32 = 0x04
)

// FieldRecord is the decoded form of one field's record frame within a
// header, as emitted by serializeFields.
type FieldRecord struct {
	FieldVersion     uint32
	TypeVersion      uint32
	ParentPhysicalID uint32
	Structure        FieldStructure
	NRepetitions     uint64 // 0 when the field is not repetitive
	Name             string
	TypeName         string
	TypeAlias        string
	Description      string
}

// ColumnRecord is the decoded form of one column's record frame within a
// header, as emitted by serializeColumns.
type ColumnRecord struct {
	Type            ColumnType
	BitsOnStorage   uint16
	PhysicalFieldID uint32
	Flags           uint32
}

// IsSortAscending reports whether the sort-ascending flag is set.
func (c ColumnRecord) IsSortAscending() bool { return c.Flags&columnFlagSortAscending != 0 }

// IsNonNegative reports whether the non-negative flag is set.
func (c ColumnRecord) IsNonNegative() bool { return c.Flags&columnFlagNonNegative != 0 }

// HeaderContents is the fully decoded payload of a header envelope.
type HeaderContents struct {
	FeatureFlags []uint64
	Name         string
	Description  string
	Fields       []FieldRecord
	Columns      []ColumnRecord
	AliasColumns []ColumnRecord
}

// bfsQueue is a simple FIFO of in-memory IDs, used to drive the
// breadth-first field/column traversal that assigns physical IDs. BFS
// order is load-bearing: a depth-first order would assign different
// physical IDs and produce an incompatible file.
type bfsQueue struct{ ids []uint64 }

func (q *bfsQueue) push(id uint64)   { q.ids = append(q.ids, id) }
func (q *bfsQueue) empty() bool      { return len(q.ids) == 0 }
func (q *bfsQueue) pop() uint64 {
	id := q.ids[0]
	q.ids = q.ids[1:]
	return id
}

// serializeFields walks desc's field tree breadth-first from field-zero,
// emitting one record frame per field and mapping each field's physical ID
// before its children are visited (so a child's ParentPhysicalID is always
// already assigned).
func serializeFields(desc Descriptor, ctx *Context, buf []byte) (int, error) {
	queue := &bfsQueue{}
	queue.push(desc.FieldZeroID())
	n := 0

	for !queue.empty() {
		parentID := queue.pop()
		physParentID := ctx.MapFieldID(parentID)

		for _, f := range desc.FieldsUnder(parentID) {
			var frame []byte
			if buf != nil {
				frame = buf[n:]
			}
			m := SerializeRecordFramePreamble(frame)

			fieldBuf := func() []byte {
				if buf != nil {
					return buf[n+m:]
				}
				return nil
			}
			m += SerializeUInt32(f.FieldVersion(), fieldBuf())
			m += SerializeUInt32(f.TypeVersion(), fieldBuf())
			m += SerializeUInt32(physParentID, fieldBuf())

			structBytes, err := SerializeFieldStructure(f.Structure(), fieldBuf())
			if err != nil {
				return 0, err
			}
			m += structBytes

			if f.NRepetitions() > 0 {
				m += SerializeUInt16(fieldFlagRepetitive, fieldBuf())
				m += SerializeUInt64(f.NRepetitions(), fieldBuf())
			} else {
				m += SerializeUInt16(0, fieldBuf())
			}

			m += SerializeString(f.Name(), fieldBuf())
			m += SerializeString(f.TypeName(), fieldBuf())
			m += SerializeString("" /* type alias */, fieldBuf())
			m += SerializeString(f.Description(), fieldBuf())

			if err := SerializeFramePostscript(frame, int32(m)); err != nil {
				return 0, err
			}
			n += m

			queue.push(f.ID())
		}
	}
	return n, nil
}

// serializeColumns walks desc's field tree breadth-first (the same order
// serializeFields uses) and, for each field in turn, emits one record
// frame per attached column in descriptor order.
func serializeColumns(desc Descriptor, ctx *Context, buf []byte) (int, error) {
	queue := &bfsQueue{}
	queue.push(desc.FieldZeroID())
	n := 0

	for !queue.empty() {
		parentID := queue.pop()

		for _, c := range desc.ColumnsUnder(parentID) {
			var frame []byte
			if buf != nil {
				frame = buf[n:]
			}
			m := SerializeRecordFramePreamble(frame)

			colBuf := func() []byte {
				if buf != nil {
					return buf[n+m:]
				}
				return nil
			}

			typeBytes, err := SerializeColumnType(c.Type(), colBuf())
			if err != nil {
				return 0, err
			}
			m += typeBytes

			bits, err := c.Type().BitsOnStorage()
			if err != nil {
				return 0, err
			}
			m += SerializeUInt16(bits, colBuf())

			physFieldID, err := ctx.PhysFieldID(c.FieldID())
			if err != nil {
				return 0, err
			}
			m += SerializeUInt32(physFieldID, colBuf())

			var flags uint32
			if c.IsSorted() {
				flags |= columnFlagSortAscending
			}
			if c.Type() == ColumnTypeIndex {
				flags |= columnFlagNonNegative
			}
			m += SerializeUInt32(flags, colBuf())

			if err := SerializeFramePostscript(frame, int32(m)); err != nil {
				return 0, err
			}
			n += m

			ctx.MapColumnID(c.ID())
		}

		for _, f := range desc.FieldsUnder(parentID) {
			queue.push(f.ID())
		}
	}
	return n, nil
}

// SerializeHeader emits the header envelope: preamble, empty feature
// flags, descriptor name and description, a list frame of fields, a list
// frame of columns, an (always-empty) list frame of alias columns, and
// the envelope postscript. It returns the number of bytes written (or, if
// buf is nil, that would be written) and a fresh Context populated with
// the field and column physical ID mappings assigned during this call.
//
// Call SerializeHeader twice to write a header: once with buf == nil to
// learn the required size, then again with a buffer of that size. Each
// call builds its own Context from scratch and records the header's size
// onto it; use the Context returned by the real-buffer call, since only
// that call also records the header's trailing CRC.
func SerializeHeader(desc Descriptor, buf []byte) (int, *Context, error) {
	ctx := NewContext()
	n := 0

	n += SerializeEnvelopePreamble(sliceFrom(buf, n))

	ffBytes, err := SerializeFeatureFlags(nil, sliceFrom(buf, n))
	if err != nil {
		return 0, nil, err
	}
	n += ffBytes

	n += SerializeString(desc.Name(), sliceFrom(buf, n))
	n += SerializeString(desc.Description(), sliceFrom(buf, n))

	var frame []byte
	if buf != nil {
		frame = buf[n:]
	}
	pre, err := SerializeListFramePreamble(uint32(desc.NFields()), frame)
	if err != nil {
		return 0, nil, err
	}
	fieldsBytes, err := serializeFields(desc, ctx, sliceFrom(buf, n+pre))
	if err != nil {
		return 0, nil, err
	}
	if err := SerializeFramePostscript(frame, int32(pre+fieldsBytes)); err != nil {
		return 0, nil, err
	}
	n += pre + fieldsBytes

	if buf != nil {
		frame = buf[n:]
	}
	pre, err = SerializeListFramePreamble(uint32(desc.NColumns()), frame)
	if err != nil {
		return 0, nil, err
	}
	columnsBytes, err := serializeColumns(desc, ctx, sliceFrom(buf, n+pre))
	if err != nil {
		return 0, nil, err
	}
	if err := SerializeFramePostscript(frame, int32(pre+columnsBytes)); err != nil {
		return 0, nil, err
	}
	n += pre + columnsBytes

	// Alias columns are not yet supported; always an empty list.
	if buf != nil {
		frame = buf[n:]
	}
	pre, err = SerializeListFramePreamble(0, frame)
	if err != nil {
		return 0, nil, err
	}
	if err := SerializeFramePostscript(frame, int32(pre)); err != nil {
		return 0, nil, err
	}
	n += pre

	var envelope []byte
	if buf != nil {
		envelope = buf[:n]
	}
	n += SerializeEnvelopePostscript(envelope, n, sliceFrom(buf, n))

	ctx.SetHeaderSize(uint32(n))
	if buf != nil {
		crc32, err := ExtractEnvelopeCRC32(buf[:n])
		if err != nil {
			return 0, nil, err
		}
		ctx.SetHeaderCRC32(crc32)
	}
	return n, ctx, nil
}

// sliceFrom returns buf[n:], or nil if buf is nil, so call sites can keep
// using a plain offset without repeating the nil check.
func sliceFrom(buf []byte, n int) []byte {
	if buf == nil {
		return nil
	}
	return buf[n:]
}

// DeserializeHeader decodes a complete header envelope.
func DeserializeHeader(buf []byte) (HeaderContents, int, error) {
	n, err := DeserializeEnvelope(buf)
	if err != nil {
		return HeaderContents{}, 0, err
	}

	flags, m, err := DeserializeFeatureFlags(buf[n:])
	if err != nil {
		return HeaderContents{}, 0, err
	}
	n += m

	name, m, err := DeserializeString(buf[n:])
	if err != nil {
		return HeaderContents{}, 0, err
	}
	n += m

	description, m, err := DeserializeString(buf[n:])
	if err != nil {
		return HeaderContents{}, 0, err
	}
	n += m

	fields, m, err := deserializeFieldList(buf[n:])
	if err != nil {
		return HeaderContents{}, 0, err
	}
	n += m

	columns, m, err := deserializeColumnList(buf[n:])
	if err != nil {
		return HeaderContents{}, 0, err
	}
	n += m

	aliasColumns, m, err := deserializeColumnList(buf[n:])
	if err != nil {
		return HeaderContents{}, 0, err
	}
	n += m + envelopeTrailerSize

	return HeaderContents{
		FeatureFlags: flags,
		Name:         name,
		Description:  description,
		Fields:       fields,
		Columns:      columns,
		AliasColumns: aliasColumns,
	}, n, nil
}

func deserializeFieldList(buf []byte) ([]FieldRecord, int, error) {
	frameSize, nitems, hdrLen, err := DeserializeFrame(buf)
	if err != nil {
		return nil, 0, err
	}
	records := make([]FieldRecord, 0, nitems)
	pos := hdrLen
	for i := uint32(0); i < nitems; i++ {
		rec, m, err := deserializeFieldRecord(buf[pos:frameSize])
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
		pos += m
	}
	return records, int(frameSize), nil
}

func deserializeFieldRecord(buf []byte) (FieldRecord, int, error) {
	frameSize, _, hdrLen, err := DeserializeFrame(buf)
	if err != nil {
		return FieldRecord{}, 0, err
	}
	body := buf[hdrLen:frameSize]

	var rec FieldRecord
	var m int
	n := 0

	rec.FieldVersion, m, err = DeserializeUInt32(body[n:])
	if err != nil {
		return FieldRecord{}, 0, err
	}
	n += m

	rec.TypeVersion, m, err = DeserializeUInt32(body[n:])
	if err != nil {
		return FieldRecord{}, 0, err
	}
	n += m

	rec.ParentPhysicalID, m, err = DeserializeUInt32(body[n:])
	if err != nil {
		return FieldRecord{}, 0, err
	}
	n += m

	rec.Structure, m, err = DeserializeFieldStructure(body[n:])
	if err != nil {
		return FieldRecord{}, 0, err
	}
	n += m

	flags, m, err := DeserializeUInt16(body[n:])
	if err != nil {
		return FieldRecord{}, 0, err
	}
	n += m
	if flags&fieldFlagRepetitive != 0 {
		rec.NRepetitions, m, err = DeserializeUInt64(body[n:])
		if err != nil {
			return FieldRecord{}, 0, err
		}
		n += m
	}

	rec.Name, m, err = DeserializeString(body[n:])
	if err != nil {
		return FieldRecord{}, 0, err
	}
	n += m

	rec.TypeName, m, err = DeserializeString(body[n:])
	if err != nil {
		return FieldRecord{}, 0, err
	}
	n += m

	rec.TypeAlias, m, err = DeserializeString(body[n:])
	if err != nil {
		return FieldRecord{}, 0, err
	}
	n += m

	rec.Description, m, err = DeserializeString(body[n:])
	if err != nil {
		return FieldRecord{}, 0, err
	}
	n += m

	return rec, int(frameSize), nil
}

func deserializeColumnList(buf []byte) ([]ColumnRecord, int, error) {
	frameSize, nitems, hdrLen, err := DeserializeFrame(buf)
	if err != nil {
		return nil, 0, err
	}
	records := make([]ColumnRecord, 0, nitems)
	pos := hdrLen
	for i := uint32(0); i < nitems; i++ {
		rec, m, err := deserializeColumnRecord(buf[pos:frameSize])
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
		pos += m
	}
	return records, int(frameSize), nil
}

func deserializeColumnRecord(buf []byte) (ColumnRecord, int, error) {
	frameSize, _, hdrLen, err := DeserializeFrame(buf)
	if err != nil {
		return ColumnRecord{}, 0, err
	}
	body := buf[hdrLen:frameSize]

	var rec ColumnRecord
	var m int
	n := 0

	rec.Type, m, err = DeserializeColumnType(body[n:])
	if err != nil {
		return ColumnRecord{}, 0, err
	}
	n += m

	rec.BitsOnStorage, m, err = DeserializeUInt16(body[n:])
	if err != nil {
		return ColumnRecord{}, 0, err
	}
	n += m

	rec.PhysicalFieldID, m, err = DeserializeUInt32(body[n:])
	if err != nil {
		return ColumnRecord{}, 0, err
	}
	n += m

	rec.Flags, m, err = DeserializeUInt32(body[n:])
	if err != nil {
		return ColumnRecord{}, 0, err
	}
	n += m

	return rec, int(frameSize), nil
}
