package bundler

// DependencyRef is the value half of Asset.Dependencies' inner map: the
// classification the producing plugin assigned to one outbound reference.
type DependencyRef struct {
	Type   DependencyType
	Format Format
}

// DependencyEdge is one flattened (depInput, type, format) triple, recorded
// in the order AddDependency first reported it. spec.md §4.2/§5 require
// that "dependencies of an asset are enqueued in the order the producing
// plugin reports them" — a nested map can't preserve that, so Order is the
// ground truth for iteration and Dependencies remains a lookup index.
type DependencyEdge struct {
	Input  string
	Type   DependencyType
	Format Format
}

// Asset is the result of a createAsset hook invocation: everything the
// graph builder needs to know about one node and its outbound edges.
type Asset struct {
	// Input is the source identifier (path or URL) this asset was built from.
	Input string

	// FilePath is the resolved local path, after cache/import-map resolution.
	FilePath string

	// Output is the destination path the bundler will eventually write to.
	Output string

	// Dependencies is a two-level mapping: DependencyType -> (dependency
	// input -> classification). The outer keys enumerate which
	// dependency-kinds this asset emits. This is a lookup index only —
	// iterate Order, not this map, when enqueue order matters.
	Dependencies map[DependencyType]map[string]DependencyRef

	// Order is the flattened dependency list in first-seen call order,
	// the sequence the graph builder and chunker must walk to honor
	// spec.md's deterministic-enqueue-order guarantee.
	Order []DependencyEdge

	Type   DependencyType
	Format Format

	// Content optionally carries bytes a plugin produced as a side effect
	// of asset creation (e.g. a derived JSON artifact). The core never
	// inspects this; it is opaque payload for createBundle to pick up.
	Content []byte
}

// AddDependency records that this asset references depInput under depType,
// classified as depFormat. It is a no-op if depInput equals a.Input — the
// spec requires self-references to be ignored by the graph builder, and
// keeping that filter here too makes Asset safe to inspect independently.
// The first call for a given (depType, depInput) pair fixes its position in
// Order; later calls update the classification in place without reordering.
func (a *Asset) AddDependency(depInput string, depType DependencyType, depFormat Format) {
	if depInput == a.Input {
		return
	}
	if a.Dependencies == nil {
		a.Dependencies = make(map[DependencyType]map[string]DependencyRef)
	}
	bucket, ok := a.Dependencies[depType]
	if !ok {
		bucket = make(map[string]DependencyRef)
		a.Dependencies[depType] = bucket
	}
	if _, exists := bucket[depInput]; !exists {
		a.Order = append(a.Order, DependencyEdge{Input: depInput, Type: depType, Format: depFormat})
	} else {
		for i := range a.Order {
			if a.Order[i].Input == depInput && a.Order[i].Type == depType {
				a.Order[i].Format = depFormat
			}
		}
	}
	bucket[depInput] = DependencyRef{Type: depType, Format: depFormat}
}

// Graph maps input -> (DependencyType -> Asset). A single input may carry
// multiple assets indexed by type, e.g. a file imported both statically
// and dynamically.
type Graph map[string]map[DependencyType]*Asset

// Get returns the asset stored for (input, typ), and whether it exists.
func (g Graph) Get(input string, typ DependencyType) (*Asset, bool) {
	byType, ok := g[input]
	if !ok {
		return nil, false
	}
	a, ok := byType[typ]
	return a, ok
}

// Set stores an asset under (input, typ).
func (g Graph) Set(input string, typ DependencyType, a *Asset) {
	byType, ok := g[input]
	if !ok {
		byType = make(map[DependencyType]*Asset)
		g[input] = byType
	}
	byType[typ] = a
}

// Chunk names one output artifact and lists the items whose content
// contributes to it. Chunks are identified by (item.History[0], item.Type).
type Chunk struct {
	Item            Item
	DependencyItems []Item
}

// ChunkKey is the identity pair spec.md assigns to chunks.
func (c Chunk) ChunkKey() (string, DependencyType) {
	return c.Item.Input(), c.Item.Type
}

// Bundle is the opaque output payload for one destination path.
type Bundle struct {
	Output  string
	Content []byte
}
