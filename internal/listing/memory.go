package listing

import (
	"context"
	"sort"
	"sync"
)

// Catalogue is a full set of records used to seed a store.
type Catalogue struct {
	Series     []Series
	Units      []Unit
	LotOnly    []LotOnly
	Agents     []Agent
	Developers []Developer
	Projects   []DeveloperProject
}

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	mu         sync.RWMutex
	series     map[string]Series
	units      map[string]Unit
	lotOnly    map[string]LotOnly
	agents     map[string]Agent
	developers map[string]Developer
	projects   map[string]DeveloperProject
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		series:     make(map[string]Series),
		units:      make(map[string]Unit),
		lotOnly:    make(map[string]LotOnly),
		agents:     make(map[string]Agent),
		developers: make(map[string]Developer),
		projects:   make(map[string]DeveloperProject),
	}
}

// Seed loads c into the store, replacing records with the same ID.
func (m *MemoryStore) Seed(c Catalogue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range c.Series {
		m.series[s.ID] = cloneSeries(s)
	}
	for _, u := range c.Units {
		m.units[u.ID] = cloneUnit(u)
	}
	for _, l := range c.LotOnly {
		m.lotOnly[l.ID] = cloneLotOnly(l)
	}
	for _, a := range c.Agents {
		m.agents[agentKey(a.ID)] = a
	}
	for _, d := range c.Developers {
		m.developers[d.ID] = d
	}
	for _, p := range c.Projects {
		m.projects[p.ID] = p
	}
}

func sortedValues[T any](records map[string]T, clone func(T) T) []T {
	keys := make([]string, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	values := make([]T, 0, len(keys))
	for _, key := range keys {
		values = append(values, clone(records[key]))
	}
	return values
}

func identity[T any](v T) T { return v }

func (m *MemoryStore) ListSeries(_ context.Context) ([]Series, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedValues(m.series, cloneSeries), nil
}

func (m *MemoryStore) GetSeries(_ context.Context, id string) (Series, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.series[id]
	if !ok {
		return Series{}, ErrNotFound
	}
	return cloneSeries(s), nil
}

func (m *MemoryStore) SaveSeries(_ context.Context, s Series) (Series, error) {
	s.ID = assignID(s.ID)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.series[s.ID] = cloneSeries(s)
	return s, nil
}

func (m *MemoryStore) DeleteSeries(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.series[id]; !ok {
		return ErrNotFound
	}
	delete(m.series, id)
	return nil
}

func (m *MemoryStore) ListUnits(_ context.Context) ([]Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedValues(m.units, cloneUnit), nil
}

func (m *MemoryStore) ListUnitsBySeries(_ context.Context, seriesID string) ([]Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	units := make([]Unit, 0)
	for _, u := range sortedValues(m.units, cloneUnit) {
		if u.SeriesID == seriesID {
			units = append(units, u)
		}
	}
	return units, nil
}

func (m *MemoryStore) GetUnit(_ context.Context, id string) (Unit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.units[id]
	if !ok {
		return Unit{}, ErrNotFound
	}
	return cloneUnit(u), nil
}

func (m *MemoryStore) SaveUnit(_ context.Context, u Unit) (Unit, error) {
	u.ID = assignID(u.ID)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units[u.ID] = cloneUnit(u)
	return u, nil
}

func (m *MemoryStore) DeleteUnit(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.units[id]; !ok {
		return ErrNotFound
	}
	delete(m.units, id)
	return nil
}

func (m *MemoryStore) ListLotOnly(_ context.Context) ([]LotOnly, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedValues(m.lotOnly, cloneLotOnly), nil
}

func (m *MemoryStore) GetLotOnly(_ context.Context, id string) (LotOnly, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.lotOnly[id]
	if !ok {
		return LotOnly{}, ErrNotFound
	}
	return cloneLotOnly(l), nil
}

func (m *MemoryStore) SaveLotOnly(_ context.Context, l LotOnly) (LotOnly, error) {
	l.ID = assignID(l.ID)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lotOnly[l.ID] = cloneLotOnly(l)
	return l, nil
}

func (m *MemoryStore) DeleteLotOnly(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lotOnly[id]; !ok {
		return ErrNotFound
	}
	delete(m.lotOnly, id)
	return nil
}

func (m *MemoryStore) ListAgents(_ context.Context) ([]Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedValues(m.agents, identity[Agent]), nil
}

func (m *MemoryStore) GetAgent(_ context.Context, id string) (Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.agents[agentKey(id)]
	if !ok {
		return Agent{}, ErrNotFound
	}
	return a, nil
}

func (m *MemoryStore) SaveAgent(_ context.Context, a Agent) (Agent, error) {
	a.ID = assignID(a.ID)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agents[agentKey(a.ID)] = a
	return a, nil
}

func (m *MemoryStore) DeleteAgent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := agentKey(id)
	if _, ok := m.agents[key]; !ok {
		return ErrNotFound
	}
	delete(m.agents, key)
	return nil
}

func (m *MemoryStore) ListDevelopers(_ context.Context) ([]Developer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortedValues(m.developers, identity[Developer]), nil
}

func (m *MemoryStore) ListDeveloperProjects(_ context.Context, developerID string) ([]DeveloperProject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	projects := make([]DeveloperProject, 0)
	for _, p := range sortedValues(m.projects, identity[DeveloperProject]) {
		if developerID == "" || p.DeveloperID == developerID {
			projects = append(projects, p)
		}
	}
	return projects, nil
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string(nil), values...)
}

func cloneSeries(s Series) Series {
	s.Features = cloneStrings(s.Features)
	if s.Specifications != nil {
		specs := make(map[string]string, len(s.Specifications))
		for k, v := range s.Specifications {
			specs[k] = v
		}
		s.Specifications = specs
	}
	return s
}

func cloneUnit(u Unit) Unit {
	u.Features = cloneStrings(u.Features)
	return u
}

func cloneLotOnly(l LotOnly) LotOnly {
	l.Features = cloneStrings(l.Features)
	l.Utilities = cloneStrings(l.Utilities)
	l.NearbyAmenities = cloneStrings(l.NearbyAmenities)
	return l
}
