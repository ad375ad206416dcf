// Package registry keeps towers and the links between them in memory.
package registry

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/woozymasta/rflink/internal/fresnel"
	"github.com/woozymasta/rflink/internal/geo"
)

// DefaultFrequencyGHz is assigned to towers added without a frequency.
const DefaultFrequencyGHz = 5.0

var (
	// ErrNotFound reports an unknown tower or link id.
	ErrNotFound = errors.New("not found")
	// ErrFrequencyMismatch reports a link between towers on different frequencies.
	ErrFrequencyMismatch = errors.New("towers use different frequencies")
	// ErrDuplicateLink reports a second link between the same two towers.
	ErrDuplicateLink = errors.New("link already exists")
	// ErrSelfLink reports a link from a tower to itself.
	ErrSelfLink = errors.New("tower cannot link to itself")
)

// Tower is a radio site on the map.
type Tower struct {
	Name         string       `json:"name" yaml:"name"`
	Location     geo.GeoPoint `json:"location" yaml:"location"`
	ID           int          `json:"id" yaml:"id"`
	FrequencyGHz float64      `json:"frequency_ghz" yaml:"frequency_ghz"`
}

// Link joins two towers. A and B hold tower ids.
type Link struct {
	ID int `json:"id" yaml:"id"`
	A  int `json:"a" yaml:"a"`
	B  int `json:"b" yaml:"b"`
}

// Stats summarizes the links of one tower.
type Stats struct {
	ConnectedFrequencies []float64 `json:"connected_frequencies_ghz"`
	LinkCount            int       `json:"link_count"`
}

// Registry stores towers and links keyed by incrementing ids starting at 1.
// It is safe for concurrent use.
type Registry struct {
	towers    map[int]Tower
	links     map[int]Link
	nextTower int
	nextLink  int
	mu        sync.RWMutex
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		towers:    make(map[int]Tower),
		links:     make(map[int]Link),
		nextTower: 1,
		nextLink:  1,
	}
}

// AddTower stores a new tower. A zero frequency becomes DefaultFrequencyGHz
// and an empty name becomes "Tower <id>".
func (r *Registry) AddTower(name string, location geo.GeoPoint, frequencyGHz float64) (Tower, error) {
	if err := location.Validate(); err != nil {
		return Tower{}, err
	}
	if frequencyGHz == 0 {
		frequencyGHz = DefaultFrequencyGHz
	}
	if err := validFrequency(frequencyGHz); err != nil {
		return Tower{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t := Tower{
		ID:           r.nextTower,
		Name:         name,
		Location:     location,
		FrequencyGHz: frequencyGHz,
	}
	if t.Name == "" {
		t.Name = fmt.Sprintf("Tower %d", t.ID)
	}

	r.towers[t.ID] = t
	r.nextTower++

	return t, nil
}

// UpdateTower changes the name and frequency of a tower.
// An empty name or a zero frequency keeps the current value.
// Existing links are not revalidated against the new frequency.
func (r *Registry) UpdateTower(id int, name string, frequencyGHz float64) (Tower, error) {
	if frequencyGHz != 0 {
		if err := validFrequency(frequencyGHz); err != nil {
			return Tower{}, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.towers[id]
	if !ok {
		return Tower{}, fmt.Errorf("tower %d: %w", id, ErrNotFound)
	}

	if name != "" {
		t.Name = name
	}
	if frequencyGHz != 0 {
		t.FrequencyGHz = frequencyGHz
	}
	r.towers[id] = t

	return t, nil
}

// RemoveTower deletes a tower and every link touching it.
// It returns the ids of the removed links.
func (r *Registry) RemoveTower(id int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.towers[id]; !ok {
		return nil, fmt.Errorf("tower %d: %w", id, ErrNotFound)
	}
	delete(r.towers, id)

	var removed []int
	for lid, l := range r.links {
		if l.A == id || l.B == id {
			delete(r.links, lid)
			removed = append(removed, lid)
		}
	}
	slices.Sort(removed)

	return removed, nil
}

// Link connects two towers. Both must exist, differ, share the exact same
// frequency and not be linked already in either direction.
func (r *Registry) Link(aID, bID int) (Link, error) {
	if aID == bID {
		return Link{}, fmt.Errorf("tower %d: %w", aID, ErrSelfLink)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.towers[aID]
	if !ok {
		return Link{}, fmt.Errorf("tower %d: %w", aID, ErrNotFound)
	}
	b, ok := r.towers[bID]
	if !ok {
		return Link{}, fmt.Errorf("tower %d: %w", bID, ErrNotFound)
	}

	if a.FrequencyGHz != b.FrequencyGHz {
		return Link{}, fmt.Errorf("%w: %v GHz and %v GHz", ErrFrequencyMismatch, a.FrequencyGHz, b.FrequencyGHz)
	}

	for _, l := range r.links {
		if (l.A == aID && l.B == bID) || (l.A == bID && l.B == aID) {
			return Link{}, fmt.Errorf("%w: link %d", ErrDuplicateLink, l.ID)
		}
	}

	l := Link{ID: r.nextLink, A: aID, B: bID}
	r.links[l.ID] = l
	r.nextLink++

	return l, nil
}

// RemoveLink deletes a link.
func (r *Registry) RemoveLink(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.links[id]; !ok {
		return fmt.Errorf("link %d: %w", id, ErrNotFound)
	}
	delete(r.links, id)

	return nil
}

// Tower returns a tower by id.
func (r *Registry) Tower(id int) (Tower, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.towers[id]
	if !ok {
		return Tower{}, fmt.Errorf("tower %d: %w", id, ErrNotFound)
	}

	return t, nil
}

// TowerByName returns the first tower (lowest id) with the given name.
func (r *Registry) TowerByName(name string) (Tower, error) {
	for _, t := range r.Towers() {
		if t.Name == name {
			return t, nil
		}
	}

	return Tower{}, fmt.Errorf("tower %q: %w", name, ErrNotFound)
}

// Towers returns all towers ordered by id.
func (r *Registry) Towers() []Tower {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tower, 0, len(r.towers))
	for _, t := range r.towers {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b Tower) int { return a.ID - b.ID })

	return out
}

// Links returns all links ordered by id.
func (r *Registry) Links() []Link {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Link, 0, len(r.links))
	for _, l := range r.links {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b Link) int { return a.ID - b.ID })

	return out
}

// LinkEnds returns the link and both of its towers.
func (r *Registry) LinkEnds(id int) (Link, Tower, Tower, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.links[id]
	if !ok {
		return Link{}, Tower{}, Tower{}, fmt.Errorf("link %d: %w", id, ErrNotFound)
	}

	// links are removed together with their towers
	return l, r.towers[l.A], r.towers[l.B], nil
}

// RadioLink returns the geometry input for a registered link.
// The frequency is taken from tower A.
func (r *Registry) RadioLink(id int) (fresnel.Link, error) {
	_, a, b, err := r.LinkEnds(id)
	if err != nil {
		return fresnel.Link{}, err
	}

	return fresnel.Link{A: a.Location, B: b.Location, FrequencyGHz: a.FrequencyGHz}, nil
}

// Stats returns the link count and connected frequencies of a tower.
func (r *Registry) Stats(id int) (Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.towers[id]; !ok {
		return Stats{}, fmt.Errorf("tower %d: %w", id, ErrNotFound)
	}

	st := Stats{ConnectedFrequencies: []float64{}}
	for _, l := range r.links {
		var peer int
		switch id {
		case l.A:
			peer = l.B
		case l.B:
			peer = l.A
		default:
			continue
		}

		st.LinkCount++
		if t, ok := r.towers[peer]; ok && !slices.Contains(st.ConnectedFrequencies, t.FrequencyGHz) {
			st.ConnectedFrequencies = append(st.ConnectedFrequencies, t.FrequencyGHz)
		}
	}
	slices.Sort(st.ConnectedFrequencies)

	return st, nil
}

func validFrequency(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return fmt.Errorf("%w: frequency %v GHz must be positive", geo.ErrInvalidInput, f)
	}

	return nil
}
