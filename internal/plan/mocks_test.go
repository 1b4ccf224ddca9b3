package plan

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pantryclub/mealplan/internal/catalog"

	"github.com/google/uuid"
)

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu          sync.Mutex
	Published   [][]byte
	Topics      []string
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Topics = append(m.Topics, topic)
	m.Published = append(m.Published, msg)
	return nil
}

// MockEntryRepo is a mock implementation of EntryRepo for testing
type MockEntryRepo struct {
	mu         sync.RWMutex
	entries    map[uuid.UUID]*Entry
	CreateFunc func(ctx context.Context, entry *Entry) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*Entry, error)
	SaveFunc   func(ctx context.Context, entry *Entry) error
	DeleteFunc func(ctx context.Context, id uuid.UUID) error
}

func NewMockEntryRepo() *MockEntryRepo {
	return &MockEntryRepo{
		entries: make(map[uuid.UUID]*Entry),
	}
}

func (m *MockEntryRepo) Create(ctx context.Context, entry *Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockEntryRepo) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	return entry, nil
}

func (m *MockEntryRepo) GetBySlot(ctx context.Context, householdID uuid.UUID, day string, slot Slot) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.HouseholdID == householdID && e.Day == day && e.Slot == slot && !e.IsWriteOff() {
			return e, nil
		}
	}
	return nil, nil
}

func (m *MockEntryRepo) ListByDays(ctx context.Context, householdID uuid.UUID, days []string) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dayset := make(map[string]bool, len(days))
	for _, d := range days {
		dayset[d] = true
	}
	var result []*Entry
	for _, e := range m.entries {
		if e.HouseholdID == householdID && dayset[e.Day] {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockEntryRepo) ListByDish(ctx context.Context, householdID uuid.UUID, dishID uuid.UUID) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Entry
	for _, e := range m.entries {
		if e.HouseholdID == householdID && e.HasDish() && *e.DishID == dishID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockEntryRepo) ListBySource(ctx context.Context, sourceID uuid.UUID) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Entry
	for _, e := range m.entries {
		if e.SourceMealID != nil && *e.SourceMealID == sourceID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockEntryRepo) ListEatenSources(ctx context.Context, householdID uuid.UUID) ([]*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Entry
	for _, e := range m.entries {
		if e.HouseholdID == householdID && e.IsSource() {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockEntryRepo) Save(ctx context.Context, entry *Entry) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entry.ID]; !ok {
		return fmt.Errorf("entry not found")
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockEntryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return fmt.Errorf("entry not found")
	}
	delete(m.entries, id)
	return nil
}

// MockDishRepo is a mock implementation of catalog.DishRepo for testing
type MockDishRepo struct {
	mu      sync.RWMutex
	dishes  map[uuid.UUID]*catalog.Dish
	GetFunc func(ctx context.Context, id uuid.UUID) (*catalog.Dish, error)
}

func NewMockDishRepo() *MockDishRepo {
	return &MockDishRepo{
		dishes: make(map[uuid.UUID]*catalog.Dish),
	}
}

func (m *MockDishRepo) Create(ctx context.Context, dish *catalog.Dish) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dishes[dish.ID] = dish
	return nil
}

func (m *MockDishRepo) Get(ctx context.Context, id uuid.UUID) (*catalog.Dish, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	dish, ok := m.dishes[id]
	if !ok {
		return nil, nil
	}
	return dish, nil
}

func (m *MockDishRepo) List(ctx context.Context, householdID uuid.UUID) ([]*catalog.Dish, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*catalog.Dish
	for _, d := range m.dishes {
		if d.HouseholdID == householdID {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *MockDishRepo) Search(ctx context.Context, householdID uuid.UUID, query string) ([]*catalog.Dish, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*catalog.Dish
	for _, d := range m.dishes {
		if d.HouseholdID == householdID && strings.Contains(strings.ToLower(d.Name), strings.ToLower(query)) {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *MockDishRepo) ListByTags(ctx context.Context, householdID uuid.UUID, tags []string) ([]*catalog.Dish, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*catalog.Dish
	for _, d := range m.dishes {
		if d.HouseholdID != householdID {
			continue
		}
		owned := make(map[string]bool, len(d.Tags))
		for _, t := range d.Tags {
			owned[t] = true
		}
		all := true
		for _, t := range tags {
			if !owned[t] {
				all = false
				break
			}
		}
		if all {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *MockDishRepo) Save(ctx context.Context, dish *catalog.Dish) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.dishes[dish.ID]; !ok {
		return fmt.Errorf("dish not found")
	}
	m.dishes[dish.ID] = dish
	return nil
}

func (m *MockDishRepo) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.dishes[id]; !ok {
		return fmt.Errorf("dish not found")
	}
	delete(m.dishes, id)
	return nil
}
