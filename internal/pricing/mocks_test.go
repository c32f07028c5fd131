package pricing_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pricebook/pricebook/internal/catalog"
	"github.com/pricebook/pricebook/internal/events"
	"github.com/pricebook/pricebook/internal/location"
	"github.com/pricebook/pricebook/internal/staff"
)

// --- Mock Catalog Repository ---

type mockCatalogRepo struct {
	services  map[uuid.UUID]catalog.Service
	getByIDFn func(ctx context.Context, id uuid.UUID) (*catalog.Service, error)
}

func (m *mockCatalogRepo) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	s, ok := m.services[id]
	if !ok {
		return nil, catalog.ErrServiceNotFound
	}
	return &s, nil
}

// --- Mock Location Repository ---

type mockLocationRepo struct {
	mu       sync.Mutex
	loc      location.Location
	assigned []location.AssignedService
	saved    []location.Override

	listAssignedCalls int
	onListAssigned    func()

	saveOverrideFn func(ctx context.Context, o location.Override) error
}

func (m *mockLocationRepo) Get(_ context.Context, id uuid.UUID) (*location.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id != m.loc.ID {
		return nil, location.ErrLocationNotFound
	}
	l := m.loc
	return &l, nil
}

func (m *mockLocationRepo) ListAssigned(_ context.Context, locationID uuid.UUID) ([]location.AssignedService, error) {
	m.mu.Lock()
	m.listAssignedCalls++
	out := []location.AssignedService{}
	if locationID == m.loc.ID {
		out = append(out, m.assigned...)
	}
	hook := m.onListAssigned
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

func (m *mockLocationRepo) GetAssigned(_ context.Context, locationID, serviceID uuid.UUID) (*location.AssignedService, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if locationID != m.loc.ID {
		return nil, location.ErrNotAssigned
	}
	for _, a := range m.assigned {
		if a.ServiceID == serviceID {
			return &a, nil
		}
	}
	return nil, location.ErrNotAssigned
}

func (m *mockLocationRepo) SaveOverride(ctx context.Context, o location.Override) error {
	if m.saveOverrideFn != nil {
		if err := m.saveOverrideFn(ctx, o); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.assigned {
		if m.assigned[i].ServiceID == o.ServiceID {
			m.assigned[i].Override = o
			m.saved = append(m.saved, o)
			return nil
		}
	}
	return location.ErrNotAssigned
}

func (m *mockLocationRepo) setOverride(serviceID uuid.UUID, price *int64, duration *int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.assigned {
		if m.assigned[i].ServiceID == serviceID {
			m.assigned[i].Override.CustomPriceMinor = price
			m.assigned[i].Override.CustomDurationMinutes = duration
		}
	}
}

func (m *mockLocationRepo) unassign(serviceID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.assigned[:0]
	for _, a := range m.assigned {
		if a.ServiceID != serviceID {
			kept = append(kept, a)
		}
	}
	m.assigned = kept
}

// --- Mock Staff Repository ---

type mockStaffRepo struct {
	mu        sync.Mutex
	overrides []staff.Override
	saved     []staff.Override
	replaced  [][]staff.Override

	saveFn       func(ctx context.Context, o staff.Override) error
	replaceAllFn func(ctx context.Context, locationID, staffID uuid.UUID, rows []staff.Override) error
}

func (m *mockStaffRepo) List(_ context.Context, locationID, staffID uuid.UUID) ([]staff.Override, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []staff.Override{}
	for _, o := range m.overrides {
		if o.LocationID == locationID && o.StaffID == staffID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockStaffRepo) Get(_ context.Context, locationID, staffID, serviceID uuid.UUID) (*staff.Override, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.overrides {
		if o.LocationID == locationID && o.StaffID == staffID && o.ServiceID == serviceID {
			return &o, nil
		}
	}
	return nil, staff.ErrOverrideNotFound
}

func (m *mockStaffRepo) Save(ctx context.Context, o staff.Override) error {
	if m.saveFn != nil {
		if err := m.saveFn(ctx, o); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsert(o)
	m.saved = append(m.saved, o)
	return nil
}

func (m *mockStaffRepo) ReplaceAll(ctx context.Context, locationID, staffID uuid.UUID, rows []staff.Override) error {
	if m.replaceAllFn != nil {
		if err := m.replaceAllFn(ctx, locationID, staffID, rows); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range rows {
		m.upsert(o)
	}
	m.replaced = append(m.replaced, rows)
	return nil
}

func (m *mockStaffRepo) upsert(o staff.Override) {
	for i, e := range m.overrides {
		if e.LocationID == o.LocationID && e.StaffID == o.StaffID && e.ServiceID == o.ServiceID {
			m.overrides[i] = o
			return
		}
	}
	m.overrides = append(m.overrides, o)
}

// --- Mock Cache ---

type memoryCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	gens        map[uuid.UUID]int64
	invalidated []uuid.UUID
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte), gens: make(map[uuid.UUID]int64)}
}

func (c *memoryCache) key(locationID uuid.UUID, gen int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", locationID, gen, key)
}

func (c *memoryCache) Generation(_ context.Context, locationID uuid.UUID) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[locationID], nil
}

func (c *memoryCache) Get(_ context.Context, locationID uuid.UUID, gen int64, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[c.key(locationID, gen, key)]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memoryCache) Set(_ context.Context, locationID uuid.UUID, gen int64, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(locationID, gen, key)] = raw
	return nil
}

func (c *memoryCache) InvalidateLocation(_ context.Context, locationID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[locationID]++
	prefix := locationID.String() + ":"
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	c.invalidated = append(c.invalidated, locationID)
	return nil
}

// --- Mock Publisher ---

type recordingPublisher struct {
	mu        sync.Mutex
	published []events.OverridesCommitted
	err       error
}

func (p *recordingPublisher) PublishCommitted(_ context.Context, e events.OverridesCommitted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, e)
	return nil
}
