package bundler

import "strings"

// DependencyType classifies why one input references another. It is a
// closed enumeration: two items with the same input but different types
// are distinct graph nodes.
type DependencyType string

const (
	Import         DependencyType = "import"
	Export         DependencyType = "export"
	Fetch          DependencyType = "fetch"
	DynamicImport  DependencyType = "dynamic-import"
	ServiceWorker  DependencyType = "service-worker"
	WebWorker      DependencyType = "web-worker"
)

// Format is a coarse classification of a source by extension. Unknown is a
// valid fallback, not an error condition.
type Format string

const (
	Html    Format = "html"
	Style   Format = "style"
	Script  Format = "script"
	Json    Format = "json"
	Wasm    Format = "wasm"
	Image   Format = "image"
	Unknown Format = "unknown"
)

// GetFormat derives a Format from a path's suffix.
func GetFormat(input string) Format {
	path := input
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	ext := strings.ToLower(extOf(path))
	switch ext {
	case ".html", ".htm":
		return Html
	case ".css", ".scss", ".sass", ".less":
		return Style
	case ".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx", ".mts", ".cts":
		return Script
	case ".json", ".json5", ".map":
		return Json
	case ".wasm":
		return Wasm
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".avif", ".ico":
		return Image
	default:
		return Unknown
	}
}

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	// Guard against a dot that belongs to a directory segment, e.g. ".git/x"
	if j := strings.LastIndexByte(path, '/'); j > i {
		return ""
	}
	return path[i:]
}

// Item is a unit of work flowing through the pipeline.
//
// History is ordered newest-first: History[0] is the active input, the
// remainder is the import chain that produced it. It drives both cycle
// detection and cache-key scoping.
type Item struct {
	History []string
	Type    DependencyType
	Format  Format
}

// Input returns the active input for this item, i.e. History[0].
func (it Item) Input() string {
	if len(it.History) == 0 {
		return ""
	}
	return it.History[0]
}

// NewEntryItem builds the seed item for an entry input: history of one,
// classified as a plain Import.
func NewEntryItem(input string) Item {
	return Item{
		History: []string{input},
		Type:    Import,
		Format:  GetFormat(input),
	}
}

// WithDependency builds the Item for a dependency discovered while
// processing this item: history grows by prepending depInput.
func (it Item) WithDependency(depInput string, depType DependencyType, depFormat Format) Item {
	history := make([]string, 0, len(it.History)+1)
	history = append(history, depInput)
	history = append(history, it.History...)
	return Item{History: history, Type: depType, Format: depFormat}
}

// key identifies an item's graph/chunk slot: (input, type).
type key struct {
	input string
	typ   DependencyType
}

func keyOf(input string, typ DependencyType) key {
	return key{input: input, typ: typ}
}
