package depscan

// ProvideIndex records which file declares each module name.
//
// Forward lookups return the most recently registered definer; the reverse
// view keeps every name a file declared, in registration order, and
// accumulates across repeated registrations for the same file.
type ProvideIndex struct {
	byName map[string]string
	byFile map[string][]string
	files  []string // first-registration order
	names  []string // first-registration order
}

// NewProvideIndex returns an empty ProvideIndex.
func NewProvideIndex() *ProvideIndex {
	return &ProvideIndex{
		byName: make(map[string]string),
		byFile: make(map[string][]string),
	}
}

// Set registers name as declared by path. A later registration of the same
// name replaces the forward definer.
func (p *ProvideIndex) Set(name, path string) {
	if _, ok := p.byName[name]; !ok {
		p.names = append(p.names, name)
	}
	p.byName[name] = path
	if _, ok := p.byFile[path]; !ok {
		p.files = append(p.files, path)
	}
	p.byFile[path] = append(p.byFile[path], name)
}

// Get returns the file that declares name.
func (p *ProvideIndex) Get(name string) (string, bool) {
	path, ok := p.byName[name]
	return path, ok
}

// Declared returns the names declared by path in registration order.
func (p *ProvideIndex) Declared(path string) []string {
	return append([]string(nil), p.byFile[path]...)
}

// Files returns every declaring file in first-registration order.
func (p *ProvideIndex) Files() []string {
	return append([]string(nil), p.files...)
}

// Names returns every declared module name in first-registration order.
func (p *ProvideIndex) Names() []string {
	return append([]string(nil), p.names...)
}

// Len returns the number of distinct declared names.
func (p *ProvideIndex) Len() int {
	return len(p.byName)
}

// nameSet is an insertion-ordered set of module names.
type nameSet struct {
	seen  map[string]struct{}
	order []string
}

func newNameSet() *nameSet {
	return &nameSet{seen: make(map[string]struct{})}
}

func (s *nameSet) add(name string) bool {
	if _, ok := s.seen[name]; ok {
		return false
	}
	s.seen[name] = struct{}{}
	s.order = append(s.order, name)
	return true
}

// RequireIndex records the set of module names each file requires.
// Duplicate requirements within a file collapse.
type RequireIndex struct {
	byFile map[string]*nameSet
	files  []string // first-registration order
}

// NewRequireIndex returns an empty RequireIndex.
func NewRequireIndex() *RequireIndex {
	return &RequireIndex{byFile: make(map[string]*nameSet)}
}

// Set registers that path requires name.
func (r *RequireIndex) Set(path, name string) {
	set, ok := r.byFile[path]
	if !ok {
		set = newNameSet()
		r.byFile[path] = set
		r.files = append(r.files, path)
	}
	set.add(name)
}

// Get returns the names path requires, or nil if it requires nothing.
func (r *RequireIndex) Get(path string) []string {
	set, ok := r.byFile[path]
	if !ok {
		return nil
	}
	return append([]string(nil), set.order...)
}

// Has reports whether path has at least one requirement registered.
func (r *RequireIndex) Has(path string) bool {
	_, ok := r.byFile[path]
	return ok
}

// Files returns every requiring file in first-registration order.
func (r *RequireIndex) Files() []string {
	return append([]string(nil), r.files...)
}

// All returns the distinct required names across all files, ordered by file
// and then by first appearance within the file.
func (r *RequireIndex) All() []string {
	all := newNameSet()
	for _, path := range r.files {
		for _, name := range r.byFile[path].order {
			all.add(name)
		}
	}
	return all.order
}

// Index pairs the provide and require views produced by one scan.
type Index struct {
	Provides *ProvideIndex
	Requires *RequireIndex
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{
		Provides: NewProvideIndex(),
		Requires: NewRequireIndex(),
	}
}

// Files returns every file that declares or requires something: declaring
// files first, then files that only require.
func (idx *Index) Files() []string {
	seen := newNameSet()
	for _, path := range idx.Provides.files {
		seen.add(path)
	}
	for _, path := range idx.Requires.files {
		seen.add(path)
	}
	return seen.order
}

// Declares is Provides.Declared.
func (idx *Index) Declares(path string) []string { return idx.Provides.Declared(path) }

// RequiredBy is Requires.Get.
func (idx *Index) RequiredBy(path string) []string { return idx.Requires.Get(path) }

// Definer is Provides.Get.
func (idx *Index) Definer(name string) (string, bool) { return idx.Provides.Get(name) }

// AllRequires is Requires.All.
func (idx *Index) AllRequires() []string { return idx.Requires.All() }
