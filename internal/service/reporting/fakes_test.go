package reporting

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/herdledger/internal/domain/models"
)

type stubAnimals struct {
	records []models.Animal
	reads   int
}

func (s *stubAnimals) Find(_ context.Context, _ models.AnimalFilter, _ models.Page) ([]models.Animal, int64, error) {
	return s.records, int64(len(s.records)), nil
}

func (s *stubAnimals) FindAll(context.Context) ([]models.Animal, error) {
	s.reads++
	return s.records, nil
}

func (s *stubAnimals) FindByID(_ context.Context, id string) (models.Animal, error) {
	for _, a := range s.records {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Animal{}, models.ErrNotFound
}

func (s *stubAnimals) Insert(context.Context, models.Animal) (models.Animal, error) {
	return models.Animal{}, errors.New("read only")
}

func (s *stubAnimals) UpdateByID(context.Context, string, models.Animal) (models.Animal, error) {
	return models.Animal{}, errors.New("read only")
}

func (s *stubAnimals) DeleteByID(context.Context, string) error { return errors.New("read only") }

type stubCosts struct {
	records []models.Cost
	reads   int
	sums    int
}

func (s *stubCosts) FindByAnimal(_ context.Context, animalID string) ([]models.Cost, error) {
	var out []models.Cost
	for _, c := range s.records {
		if c.AnimalID == animalID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubCosts) FindByAnimals(context.Context, []string) ([]models.Cost, error) {
	return s.records, nil
}

func (s *stubCosts) FindAll(context.Context) ([]models.Cost, error) {
	s.reads++
	return s.records, nil
}

func (s *stubCosts) Insert(context.Context, models.Cost) (models.Cost, error) {
	return models.Cost{}, errors.New("read only")
}

func (s *stubCosts) DeleteByID(context.Context, string, string) error { return errors.New("read only") }

func (s *stubCosts) DeleteByAnimal(context.Context, string) (int64, error) {
	return 0, errors.New("read only")
}

func (s *stubCosts) SumAmounts(context.Context, models.CostFilter) (decimal.Decimal, error) {
	s.sums++
	total := decimal.Zero
	for _, c := range s.records {
		total = total.Add(c.Amount)
	}
	return total, nil
}

type stubSettings struct {
	settings models.Settings
}

func (s *stubSettings) GetOrCreate(context.Context, models.Settings) (models.Settings, error) {
	return s.settings, nil
}

func (s *stubSettings) Save(_ context.Context, settings models.Settings, _ *int64) (models.Settings, error) {
	s.settings = settings
	return settings, nil
}

type memorySnapshots struct {
	saved []models.IndicatorSnapshot
	err   error
}

func (m *memorySnapshots) Save(_ context.Context, snapshot models.IndicatorSnapshot) (models.IndicatorSnapshot, error) {
	if m.err != nil {
		return models.IndicatorSnapshot{}, m.err
	}
	snapshot.ID = fmt.Sprintf("snap-%d", len(m.saved)+1)
	m.saved = append(m.saved, snapshot)
	return snapshot, nil
}

func (m *memorySnapshots) Latest(context.Context) (models.IndicatorSnapshot, error) {
	if len(m.saved) == 0 {
		return models.IndicatorSnapshot{}, models.ErrNotFound
	}
	return m.saved[len(m.saved)-1], nil
}

type memorySheet struct {
	rows      [][]interface{}
	appendErr error
}

func (m *memorySheet) AppendRow(_ context.Context, _ string, values []interface{}) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.rows = append(m.rows, values)
	return nil
}

func (m *memorySheet) ReadRange(_ context.Context, _ string) ([][]interface{}, error) {
	if len(m.rows) == 0 {
		return nil, nil
	}
	return m.rows[:1], nil
}

type recordingSender struct {
	to     []string
	bodies []string
	err    error
}

func (r *recordingSender) SendText(_ context.Context, to, body string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.to = append(r.to, to)
	r.bodies = append(r.bodies, body)
	return "wamid.1", nil
}
