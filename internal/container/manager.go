package container

import (
	"sync"

	"v2browse/pkg/types"
)

// Manager owns the live container. Every mutation is persisted before it
// returns; when the write fails the new container is kept in memory and the
// storage error is returned for display.
type Manager struct {
	mu         sync.RWMutex
	items      Container
	reconciler Reconciler
	persister  *Persister
}

// NewManager loads the saved container through p and returns a manager
// using r. The load error, if any, is returned alongside a usable manager.
func NewManager(r Reconciler, p *Persister) (*Manager, error) {
	if r == nil {
		r = AccumulatingReconciler{}
	}
	m := &Manager{reconciler: r, persister: p, items: Container{}}
	if p == nil {
		return m, nil
	}
	items, err := p.Load()
	m.items = items
	return m, err
}

// Items returns a copy of the container.
func (m *Manager) Items() Container {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items.Clone()
}

// Len returns the number of entries.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Mode returns the reconciler name.
func (m *Manager) Mode() string {
	return m.reconciler.Name()
}

// Reconcile applies the rows checked in the listing of dir.
func (m *Manager) Reconcile(dir string, listing types.Listing, selected map[string]bool) error {
	m.mu.Lock()
	m.items = m.reconciler.Reconcile(m.items, dir, listing, selected)
	snapshot := m.items.Clone()
	m.mu.Unlock()
	return m.save(snapshot)
}

// Delete removes the entries with the given row keys.
func (m *Manager) Delete(keys map[string]bool) error {
	m.mu.Lock()
	m.items = Delete(m.items, keys)
	snapshot := m.items.Clone()
	m.mu.Unlock()
	return m.save(snapshot)
}

// Clear empties the container.
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.items = Container{}
	m.mu.Unlock()
	return m.save(Container{})
}

// Replace swaps in a container changed elsewhere (another process) without
// writing it back.
func (m *Manager) Replace(c Container) {
	m.mu.Lock()
	m.items = c.Clone()
	m.mu.Unlock()
}

// SelectedIn returns the names that are selected in dir according to the
// container, used to restore checkmarks when a directory is revisited.
func (m *Manager) SelectedIn(dir string, listing types.Listing) map[string]bool {
	dir = types.CleanPath(dir)
	keys := make(map[string]bool)

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.items {
		if e.Path != dir {
			continue
		}
		if !e.IsDir() {
			keys[e.Name] = true
			continue
		}
		listed, ok := listing.Find(e.Name)
		if ok && len(e.Contents) == len(listed.Contents) {
			keys[e.Name] = true
		}
		for _, c := range e.Contents {
			keys[c.Name] = true
		}
	}
	return keys
}

func (m *Manager) save(c Container) error {
	if m.persister == nil {
		return nil
	}
	return m.persister.Save(c)
}
