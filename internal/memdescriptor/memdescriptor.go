// Package memdescriptor is a minimal, fully in-memory implementation of
// the tupcodec descriptor interfaces, built for the tests of tupcodec and
// cmd/tupdump. It is a fixture, not a schema engine: fields, columns, and
// clusters are only ever appended, never removed; the one in-place change
// is AddPages, which attaches or replaces a column's page range within a
// cluster.
package memdescriptor

import (
	"sort"

	"github.com/tuplestore/tupcodec/tupcodec"
)

type field struct {
	id           uint64
	parent       uint64
	fieldVersion uint32
	typeVersion  uint32
	structure    tupcodec.FieldStructure
	nRepetitions uint64
	name         string
	typeName     string
	description  string
}

func (f *field) ID() uint64                        { return f.id }
func (f *field) FieldVersion() uint32               { return f.fieldVersion }
func (f *field) TypeVersion() uint32                { return f.typeVersion }
func (f *field) Structure() tupcodec.FieldStructure { return f.structure }
func (f *field) NRepetitions() uint64               { return f.nRepetitions }
func (f *field) Name() string                       { return f.name }
func (f *field) TypeName() string                   { return f.typeName }
func (f *field) Description() string                { return f.description }

type column struct {
	id       uint64
	fieldID  uint64
	typ      tupcodec.ColumnType
	isSorted bool
}

func (c *column) ID() uint64                { return c.id }
func (c *column) FieldID() uint64           { return c.fieldID }
func (c *column) Type() tupcodec.ColumnType { return c.typ }
func (c *column) IsSorted() bool            { return c.isSorted }

type cluster struct {
	id         uint64
	firstEntry uint64
	nEntries   uint64
	columnIDs  []uint64
	pages      map[uint64]tupcodec.PageRange
}

func (cl *cluster) ID() uint64         { return cl.id }
func (cl *cluster) FirstEntry() uint64 { return cl.firstEntry }
func (cl *cluster) NEntries() uint64   { return cl.nEntries }
func (cl *cluster) ColumnIDs() []uint64 {
	out := make([]uint64, len(cl.columnIDs))
	copy(out, cl.columnIDs)
	return out
}
func (cl *cluster) PageRange(columnID uint64) tupcodec.PageRange {
	return cl.pages[columnID]
}

// Descriptor is an in-memory field/column/cluster table satisfying
// tupcodec.Descriptor.
type Descriptor struct {
	name        string
	description string
	fieldZeroID uint64

	fields     map[uint64]*field
	fieldOrder map[uint64][]uint64 // parent -> children, in add order

	columns     map[uint64]*column
	columnOrder map[uint64][]uint64 // parent field -> column IDs, in add order

	clusters      map[uint64]*cluster
	clusterByIdx  []uint64
	nextFieldID   uint64
	nextColumnID  uint64
	nextClusterID uint64
}

// New returns an empty descriptor with the given name/description and a
// field-zero root already registered.
func New(name, description string) *Descriptor {
	d := &Descriptor{
		name:        name,
		description: description,
		fields:      make(map[uint64]*field),
		fieldOrder:  make(map[uint64][]uint64),
		columns:     make(map[uint64]*column),
		columnOrder: make(map[uint64][]uint64),
		clusters:    make(map[uint64]*cluster),
	}
	d.fieldZeroID = d.nextFieldID
	d.fields[d.fieldZeroID] = &field{id: d.fieldZeroID, structure: tupcodec.FieldStructureRecord}
	d.nextFieldID++
	return d
}

func (d *Descriptor) Name() string        { return d.name }
func (d *Descriptor) Description() string { return d.description }
func (d *Descriptor) FieldZeroID() uint64 { return d.fieldZeroID }
func (d *Descriptor) NFields() int        { return len(d.fields) - 1 } // field-zero is not counted
func (d *Descriptor) NColumns() int       { return len(d.columns) }
func (d *Descriptor) NClusters() int      { return len(d.clusterByIdx) }

// AddField appends a field under parentID and returns its assigned
// in-memory ID.
func (d *Descriptor) AddField(parentID uint64, fieldVersion, typeVersion uint32, structure tupcodec.FieldStructure, nRepetitions uint64, name, typeName, description string) uint64 {
	id := d.nextFieldID
	d.nextFieldID++
	d.fields[id] = &field{
		id:           id,
		parent:       parentID,
		fieldVersion: fieldVersion,
		typeVersion:  typeVersion,
		structure:    structure,
		nRepetitions: nRepetitions,
		name:         name,
		typeName:     typeName,
		description:  description,
	}
	d.fieldOrder[parentID] = append(d.fieldOrder[parentID], id)
	return id
}

// AddColumn appends a column attached to fieldID and returns its assigned
// in-memory ID.
func (d *Descriptor) AddColumn(fieldID uint64, typ tupcodec.ColumnType, isSorted bool) uint64 {
	id := d.nextColumnID
	d.nextColumnID++
	d.columns[id] = &column{id: id, fieldID: fieldID, typ: typ, isSorted: isSorted}
	d.columnOrder[fieldID] = append(d.columnOrder[fieldID], id)
	return id
}

// AddCluster appends a cluster covering [firstEntry, firstEntry+nEntries)
// and returns its assigned in-memory ID.
func (d *Descriptor) AddCluster(firstEntry, nEntries uint64) uint64 {
	id := d.nextClusterID
	d.nextClusterID++
	d.clusters[id] = &cluster{
		id:         id,
		firstEntry: firstEntry,
		nEntries:   nEntries,
		pages:      make(map[uint64]tupcodec.PageRange),
	}
	d.clusterByIdx = append(d.clusterByIdx, id)
	return id
}

// AddPages attaches columnID's page range within clusterID, registering
// columnID as one of the cluster's covered columns.
func (d *Descriptor) AddPages(clusterID, columnID uint64, pages []tupcodec.PageInfo) {
	cl := d.clusters[clusterID]
	if _, ok := cl.pages[columnID]; !ok {
		cl.columnIDs = append(cl.columnIDs, columnID)
	}
	cl.pages[columnID] = tupcodec.PageRange{PageInfos: pages}
}

func (d *Descriptor) FieldsUnder(parentID uint64) []tupcodec.FieldDescriptor {
	ids := d.fieldOrder[parentID]
	out := make([]tupcodec.FieldDescriptor, len(ids))
	for i, id := range ids {
		out[i] = d.fields[id]
	}
	return out
}

func (d *Descriptor) ColumnsUnder(parentID uint64) []tupcodec.ColumnDescriptor {
	ids := d.columnOrder[parentID]
	out := make([]tupcodec.ColumnDescriptor, len(ids))
	for i, id := range ids {
		out[i] = d.columns[id]
	}
	return out
}

func (d *Descriptor) ClusterByIndex(i int) tupcodec.ClusterDescriptor {
	return d.clusters[d.clusterByIdx[i]]
}

func (d *Descriptor) ClusterByID(id uint64) tupcodec.ClusterDescriptor {
	return d.clusters[id]
}

// SortedPhysClusterIDs returns 0..NClusters-1, the identity order used when
// clusters are registered and mapped in add order (the common case for
// this fixture: Context.MapClusterID is called once per cluster, in AddCluster
// order, so physical and in-memory cluster IDs coincide by construction).
func (d *Descriptor) SortedPhysClusterIDs() []uint32 {
	ids := make([]uint32, len(d.clusterByIdx))
	for i := range ids {
		ids[i] = uint32(i)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
