package livestock

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdledger/internal/domain/models"
	"github.com/mamadbah2/herdledger/internal/indicators"
	"github.com/mamadbah2/herdledger/internal/repository/mongodb"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Service validates input and coordinates animal, cost and settings storage.
type Service struct {
	animals  mongodb.AnimalStore
	costs    mongodb.CostStore
	settings mongodb.SettingsStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a livestock service.
func NewService(animals mongodb.AnimalStore, costs mongodb.CostStore, settings mongodb.SettingsStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		animals:  animals,
		costs:    costs,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

// ListAnimals returns one page of animals with their costs and metrics.
func (s *Service) ListAnimals(ctx context.Context, q ListQuery) (models.AnimalList, error) {
	filter, page, err := validateListQuery(q)
	if err != nil {
		return models.AnimalList{}, err
	}

	animals, total, err := s.animals.Find(ctx, filter, page)
	if err != nil {
		return models.AnimalList{}, fmt.Errorf("list animals: %w", err)
	}

	ids := lo.Map(animals, func(a models.Animal, _ int) string { return a.ID })
	costs, err := s.costs.FindByAnimals(ctx, ids)
	if err != nil {
		return models.AnimalList{}, fmt.Errorf("list costs for animals: %w", err)
	}
	byAnimal := indicators.CostsByAnimal(costs)

	now := s.now()
	details := lo.Map(animals, func(a models.Animal, _ int) models.AnimalDetails {
		return s.details(a, byAnimal[a.ID], now)
	})

	totalPages := int64(0)
	if total > 0 {
		totalPages = (total + int64(page.Limit) - 1) / int64(page.Limit)
	}

	return models.AnimalList{
		Animals: details,
		Pagination: models.Pagination{
			Page:       page.Number,
			Limit:      page.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// GetAnimal returns an animal with its costs and metrics.
func (s *Service) GetAnimal(ctx context.Context, id string) (models.AnimalDetails, error) {
	animal, err := s.animals.FindByID(ctx, id)
	if err != nil {
		return models.AnimalDetails{}, err
	}

	costs, err := s.costs.FindByAnimal(ctx, id)
	if err != nil {
		return models.AnimalDetails{}, fmt.Errorf("list costs of animal %s: %w", id, err)
	}

	return s.details(animal, costs, s.now()), nil
}

// CreateAnimal validates and stores a new animal.
func (s *Service) CreateAnimal(ctx context.Context, in AnimalInput) (models.Animal, error) {
	animal, err := validateAnimal(in)
	if err != nil {
		return models.Animal{}, err
	}

	created, err := s.animals.Insert(ctx, animal)
	if err != nil {
		return models.Animal{}, fmt.Errorf("create animal: %w", err)
	}

	s.logger.Info("animal created", zap.String("animal_id", created.ID), zap.String("type", created.Type))
	return created, nil
}

// UpdateAnimal validates and replaces an existing animal.
func (s *Service) UpdateAnimal(ctx context.Context, id string, in AnimalInput) (models.Animal, error) {
	animal, err := validateAnimal(in)
	if err != nil {
		return models.Animal{}, err
	}

	updated, err := s.animals.UpdateByID(ctx, id, animal)
	if err != nil {
		return models.Animal{}, err
	}

	s.logger.Info("animal updated", zap.String("animal_id", id), zap.String("status", string(updated.Status)))
	return updated, nil
}

// DeleteAnimal removes an animal together with all of its costs.
func (s *Service) DeleteAnimal(ctx context.Context, id string) error {
	if _, err := s.animals.FindByID(ctx, id); err != nil {
		return err
	}

	removed, err := s.costs.DeleteByAnimal(ctx, id)
	if err != nil {
		return fmt.Errorf("delete costs of animal %s: %w", id, err)
	}

	if err := s.animals.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.logger.Info("animal deleted", zap.String("animal_id", id), zap.Int64("costs_deleted", removed))
	return nil
}

// ListCosts returns the costs of an existing animal, most recent first.
func (s *Service) ListCosts(ctx context.Context, animalID string) ([]models.Cost, error) {
	if _, err := s.animals.FindByID(ctx, animalID); err != nil {
		return nil, err
	}

	costs, err := s.costs.FindByAnimal(ctx, animalID)
	if err != nil {
		return nil, fmt.Errorf("list costs of animal %s: %w", animalID, err)
	}
	return costs, nil
}

// AddCost validates and records a cost against an existing animal.
func (s *Service) AddCost(ctx context.Context, animalID string, in CostInput) (models.Cost, error) {
	if _, err := s.animals.FindByID(ctx, animalID); err != nil {
		return models.Cost{}, err
	}

	cost, err := validateCost(animalID, in)
	if err != nil {
		return models.Cost{}, err
	}

	created, err := s.costs.Insert(ctx, cost)
	if err != nil {
		return models.Cost{}, fmt.Errorf("create cost: %w", err)
	}

	s.logger.Info("cost recorded",
		zap.String("animal_id", animalID),
		zap.String("cost_id", created.ID),
		zap.String("category", string(created.Category)),
		zap.String("amount", created.Amount.String()))
	return created, nil
}

// DeleteCost removes one cost of an animal.
func (s *Service) DeleteCost(ctx context.Context, animalID, costID string) error {
	if _, err := s.animals.FindByID(ctx, animalID); err != nil {
		return err
	}
	if err := s.costs.DeleteByID(ctx, animalID, costID); err != nil {
		return err
	}

	s.logger.Info("cost deleted", zap.String("animal_id", animalID), zap.String("cost_id", costID))
	return nil
}

// GetSettings returns the settings record, creating the default one on first use.
func (s *Service) GetSettings(ctx context.Context) (models.Settings, error) {
	settings, err := s.settings.GetOrCreate(ctx, models.DefaultSettings())
	if err != nil {
		return models.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings validates and overwrites the settings record.
func (s *Service) UpdateSettings(ctx context.Context, in SettingsInput) (models.Settings, error) {
	settings, err := validateSettings(in)
	if err != nil {
		return models.Settings{}, err
	}

	saved, err := s.settings.Save(ctx, settings, in.Version)
	if err != nil {
		return models.Settings{}, err
	}

	s.logger.Info("settings updated", zap.Int64("version", saved.Version), zap.Int("animal_types", len(saved.AnimalTypes)))
	return saved, nil
}

func (s *Service) details(animal models.Animal, costs []models.Cost, now time.Time) models.AnimalDetails {
	if costs == nil {
		costs = []models.Cost{}
	}
	return models.AnimalDetails{
		Animal:  animal,
		Costs:   costs,
		Metrics: indicators.Metrics(animal, costs, now),
	}
}
