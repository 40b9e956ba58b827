package livestock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/herdledger/internal/domain/models"
)

type memoryAnimals struct {
	mu      sync.Mutex
	seq     int
	records map[string]models.Animal
	order   []string
}

func newMemoryAnimals() *memoryAnimals {
	return &memoryAnimals{records: map[string]models.Animal{}}
}

func (m *memoryAnimals) Find(_ context.Context, filter models.AnimalFilter, page models.Page) ([]models.Animal, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []models.Animal
	for i := len(m.order) - 1; i >= 0; i-- {
		a, ok := m.records[m.order[i]]
		if !ok {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		matched = append(matched, a)
	}

	total := int64(len(matched))
	start := int(page.Skip())
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *memoryAnimals) FindAll(ctx context.Context) ([]models.Animal, error) {
	all, _, err := m.Find(ctx, models.AnimalFilter{}, models.Page{Number: 1, Limit: len(m.order) + 1})
	return all, err
}

func (m *memoryAnimals) FindByID(_ context.Context, id string) (models.Animal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.records[id]
	if !ok {
		return models.Animal{}, models.ErrNotFound
	}
	return a, nil
}

func (m *memoryAnimals) Insert(_ context.Context, animal models.Animal) (models.Animal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	animal.ID = fmt.Sprintf("animal-%d", m.seq)
	m.records[animal.ID] = animal
	m.order = append(m.order, animal.ID)
	return animal, nil
}

func (m *memoryAnimals) UpdateByID(_ context.Context, id string, animal models.Animal) (models.Animal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.records[id]
	if !ok {
		return models.Animal{}, models.ErrNotFound
	}
	animal.ID = id
	animal.CreatedAt = existing.CreatedAt
	m.records[id] = animal
	return animal, nil
}

func (m *memoryAnimals) DeleteByID(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

type memoryCosts struct {
	mu      sync.Mutex
	seq     int
	records []models.Cost
}

func (m *memoryCosts) FindByAnimal(_ context.Context, animalID string) ([]models.Cost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Cost
	for _, c := range m.records {
		if c.AnimalID == animalID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *memoryCosts) FindByAnimals(ctx context.Context, animalIDs []string) ([]models.Cost, error) {
	var out []models.Cost
	for _, id := range animalIDs {
		costs, _ := m.FindByAnimal(ctx, id)
		out = append(out, costs...)
	}
	return out, nil
}

func (m *memoryCosts) FindAll(context.Context) ([]models.Cost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Cost(nil), m.records...), nil
}

func (m *memoryCosts) Insert(_ context.Context, cost models.Cost) (models.Cost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	cost.ID = fmt.Sprintf("cost-%d", m.seq)
	m.records = append(m.records, cost)
	return cost, nil
}

func (m *memoryCosts) DeleteByID(_ context.Context, animalID, costID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.records {
		if c.ID == costID && c.AnimalID == animalID {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *memoryCosts) DeleteByAnimal(_ context.Context, animalID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.records[:0]
	var removed int64
	for _, c := range m.records {
		if c.AnimalID == animalID {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	m.records = kept
	return removed, nil
}

func (m *memoryCosts) SumAmounts(_ context.Context, filter models.CostFilter) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, c := range m.records {
		if filter.AnimalID != "" && c.AnimalID != filter.AnimalID {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		total = total.Add(c.Amount)
	}
	return total, nil
}

type memorySettings struct {
	mu      sync.Mutex
	current *models.Settings
	creates int
}

func (m *memorySettings) GetOrCreate(_ context.Context, defaults models.Settings) (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		defaults.Version = 1
		m.current = &defaults
		m.creates++
	}
	return *m.current, nil
}

func (m *memorySettings) Save(_ context.Context, settings models.Settings, expectedVersion *int64) (models.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var version int64
	if m.current != nil {
		version = m.current.Version
	}
	// A versioned write never creates the record.
	if expectedVersion != nil && (m.current == nil || *expectedVersion != version) {
		return models.Settings{}, models.ErrVersionConflict
	}
	settings.Version = version + 1
	m.current = &settings
	return settings, nil
}
