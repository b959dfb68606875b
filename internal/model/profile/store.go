package profile

// Store exposes profile retrieval for HTTP handlers.
type Store interface {
	Get() Profile
}

// MemoryStore implements Store with a single in-memory profile.
type MemoryStore struct {
	item Profile
}

// NewMemoryStore returns a MemoryStore holding a copy of item.
func NewMemoryStore(item Profile) *MemoryStore {
	return &MemoryStore{item: clone(item)}
}

// Get returns a copy of the stored profile.
func (s *MemoryStore) Get() Profile {
	return clone(s.item)
}

func clone(p Profile) Profile {
	p.Expertise = append([]string(nil), p.Expertise...)
	p.Skills = append([]string(nil), p.Skills...)
	p.Employers = append([]string(nil), p.Employers...)
	p.Projects = append([]string(nil), p.Projects...)
	p.Suggestions = append([]string(nil), p.Suggestions...)
	return p
}
