package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MockDishRepo is a mock implementation of DishRepo for testing
type MockDishRepo struct {
	mu     sync.RWMutex
	dishes map[uuid.UUID]*Dish

	CreateFunc func(ctx context.Context, dish *Dish) error
	GetFunc    func(ctx context.Context, id uuid.UUID) (*Dish, error)
	SaveFunc   func(ctx context.Context, dish *Dish) error
	DeleteFunc func(ctx context.Context, id uuid.UUID) error
}

func NewMockDishRepo() *MockDishRepo {
	return &MockDishRepo{dishes: make(map[uuid.UUID]*Dish)}
}

func (m *MockDishRepo) Create(ctx context.Context, dish *Dish) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, dish)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dishes[dish.ID] = dish
	return nil
}

func (m *MockDishRepo) Get(ctx context.Context, id uuid.UUID) (*Dish, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dishes[id], nil
}

func (m *MockDishRepo) List(ctx context.Context, householdID uuid.UUID) ([]*Dish, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Dish
	for _, dish := range m.dishes {
		if dish.HouseholdID == householdID {
			result = append(result, dish)
		}
	}
	return result, nil
}

func (m *MockDishRepo) Search(ctx context.Context, householdID uuid.UUID, query string) ([]*Dish, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	query = strings.ToLower(query)
	var result []*Dish
	for _, dish := range m.dishes {
		if dish.HouseholdID != householdID {
			continue
		}
		if strings.Contains(strings.ToLower(dish.Name), query) {
			result = append(result, dish)
		}
	}
	return result, nil
}

func (m *MockDishRepo) ListByTags(ctx context.Context, householdID uuid.UUID, tags []string) ([]*Dish, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*Dish
	for _, dish := range m.dishes {
		if dish.HouseholdID != householdID {
			continue
		}
		if containsAllTags(dish.Tags, tags) {
			result = append(result, dish)
		}
	}
	return result, nil
}

func containsAllTags(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, tag := range have {
		set[tag] = true
	}
	for _, tag := range want {
		if !set[tag] {
			return false
		}
	}
	return true
}

func (m *MockDishRepo) Save(ctx context.Context, dish *Dish) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, dish)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dishes[dish.ID] = dish
	return nil
}

func (m *MockDishRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.dishes, id)
	return nil
}
