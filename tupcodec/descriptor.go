package tupcodec

// This file declares the interfaces the codec requires of the descriptor
// collaborator (the schema/layout metadata store). The descriptor data
// structures themselves — how a field table, column table, or cluster
// table is built and mutated — are out of scope for this package; it only
// walks whatever concrete type satisfies these interfaces.

// PageInfo is one page's element count and its on-disk locator.
type PageInfo struct {
	NElements uint32
	Locator   Locator
}

// PageRange is the sequence of page infos for a single column within a
// single cluster.
type PageRange struct {
	PageInfos []PageInfo
}

// FieldDescriptor exposes the per-field metadata the header serializer
// writes: version numbers, structure, optional repetition count, names,
// and description. ID is the field's in-memory identifier.
type FieldDescriptor interface {
	ID() uint64
	FieldVersion() uint32
	TypeVersion() uint32
	Structure() FieldStructure
	// NRepetitions is 0 for a non-repetitive field.
	NRepetitions() uint64
	Name() string
	TypeName() string
	Description() string
}

// ColumnDescriptor exposes the per-column metadata the header serializer
// writes: its column type, sort flag, and owning field. ID is the
// column's in-memory identifier.
type ColumnDescriptor interface {
	ID() uint64
	FieldID() uint64
	Type() ColumnType
	IsSorted() bool
}

// ClusterDescriptor exposes one cluster's entry range, the columns it
// covers, and each covered column's page range.
type ClusterDescriptor interface {
	ID() uint64
	FirstEntry() uint64
	NEntries() uint64
	// ColumnIDs returns the in-memory column IDs this cluster covers, in
	// no particular order; callers that need a deterministic order (the
	// codec does) sort the physical IDs themselves.
	ColumnIDs() []uint64
	// PageRange returns the page range for the given in-memory column ID.
	PageRange(columnID uint64) PageRange
}

// Descriptor is the full schema/layout metadata store the codec
// serializes: a field tree rooted at FieldZeroID, the columns attached to
// each field, and the cluster table.
type Descriptor interface {
	Name() string
	Description() string
	FieldZeroID() uint64
	NFields() int
	NColumns() int
	NClusters() int
	// FieldsUnder returns the direct children of parentID in a
	// deterministic, descriptor-defined order. Re-ordering children
	// between calls (or between processes writing the same logical
	// descriptor) produces an incompatible file: physical field IDs are
	// assigned in this order.
	FieldsUnder(parentID uint64) []FieldDescriptor
	// ColumnsUnder returns the columns attached to parentID in a
	// deterministic, descriptor-defined order.
	ColumnsUnder(parentID uint64) []ColumnDescriptor
	// ClusterByIndex returns the cluster at position i in [0, NClusters).
	ClusterByIndex(i int) ClusterDescriptor
	// ClusterByID returns the cluster with the given in-memory ID.
	ClusterByID(id uint64) ClusterDescriptor
}
