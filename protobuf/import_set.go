package protobuf

// ImportSet is a set of import paths that remembers the order in which they
// were first added.
type ImportSet struct {
	paths []string
	seen  map[string]struct{}
}

// NewImportSet returns a new, empty ImportSet.
func NewImportSet() *ImportSet {
	return &ImportSet{seen: make(map[string]struct{})}
}

// Add adds the path to the set. Returns whether the path was or not added.
func (s *ImportSet) Add(path string) bool {
	if path == "" {
		return false
	}

	if _, ok := s.seen[path]; ok {
		return false
	}

	s.seen[path] = struct{}{}
	s.paths = append(s.paths, path)
	return true
}

// Contains checks if the given path is in the set.
func (s *ImportSet) Contains(path string) bool {
	_, ok := s.seen[path]
	return ok
}

// Paths returns the paths in first-use order.
func (s *ImportSet) Paths() []string {
	return append([]string(nil), s.paths...)
}

// Len returns the total number of paths in the set.
func (s *ImportSet) Len() int {
	return len(s.paths)
}
