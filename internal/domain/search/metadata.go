package search

// MetadataFilter holds the optional filesystem-metadata criteria. All fields
// are optional; an empty filter matches everything under the search root.
type MetadataFilter struct {
	NamePattern string // filename glob, e.g. "*.md"
	TypeFilter  string // "f" for files, "d" for directories
	SizeFilter  string // size expression, e.g. "+1M", "-100k"
}
