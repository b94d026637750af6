package maf

// SourceKey identifies a source sequence. Chrom is empty unless
// chromosome names are being checked.
type SourceKey struct {
	Species string
	Chrom   string
}

func (k SourceKey) String() string {
	if k.Chrom == "" {
		return k.Species
	}
	return k.Species + "." + k.Chrom
}

// SourceRegistry remembers the first srcSize declared for each source.
type SourceRegistry struct {
	sizes map[SourceKey]int64
}

// NewSourceRegistry creates an empty registry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{sizes: make(map[SourceKey]int64)}
}

// Check registers size for key on first sight. It returns the size first
// declared for key and whether size agrees with it.
func (r *SourceRegistry) Check(key SourceKey, size int64) (int64, bool) {
	declared, ok := r.sizes[key]
	if !ok {
		r.sizes[key] = size
		return size, true
	}
	return declared, declared == size
}

// Len returns the number of distinct sources seen.
func (r *SourceRegistry) Len() int {
	return len(r.sizes)
}
