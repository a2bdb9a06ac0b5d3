// Package registry holds named scenarios in memory for the lifetime of a
// session. The engine never depends on this store; it is the keyed
// collaborator that the HTTP API and CLI read scenarios from.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/regquant/drcsa/scenario"
)

// Summary describes a stored scenario without its exposures.
type Summary struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Tags        []string  `json:"tags,omitempty"`
	Exposures   int       `json:"exposure_count"`
}

// Store is a concurrency-safe in-memory scenario registry keyed by name.
// Upsert replaces any existing scenario under the same name.
type Store struct {
	mu        sync.RWMutex
	scenarios map[string]scenario.Scenario
}

// NewStore returns an empty registry.
func NewStore() *Store {
	return &Store{scenarios: make(map[string]scenario.Scenario)}
}

// Upsert stores a scenario under its name, replacing any previous value.
// A zero CreatedAt is stamped with the current time.
func (s *Store) Upsert(scn scenario.Scenario) {
	if scn.CreatedAt.IsZero() {
		scn.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenarios[scn.Name] = scn
}

// Get returns the scenario stored under name.
func (s *Store) Get(name string) (scenario.Scenario, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scn, ok := s.scenarios[name]
	return scn, ok
}

// Delete removes the scenario stored under name and reports whether one
// existed.
func (s *Store) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scenarios[name]; !ok {
		return false
	}
	delete(s.scenarios, name)
	return true
}

// List returns summaries of all stored scenarios, sorted by name.
func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]Summary, 0, len(s.scenarios))
	for _, scn := range s.scenarios {
		summaries = append(summaries, Summary{
			Name:        scn.Name,
			Description: scn.Description,
			CreatedAt:   scn.CreatedAt,
			Tags:        scn.Tags,
			Exposures:   len(scn.Exposures),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries
}

// Clear removes every stored scenario.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenarios = make(map[string]scenario.Scenario)
}
