package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdledger/internal/domain/models"
	"github.com/mamadbah2/herdledger/internal/indicators"
	"github.com/mamadbah2/herdledger/internal/repository/mongodb"
	sheetsrepo "github.com/mamadbah2/herdledger/internal/repository/sheets"
	"github.com/mamadbah2/herdledger/pkg/clients/whatsapp"
)

// Stores groups the storage collaborators the reporting service reads from.
type Stores struct {
	Animals   mongodb.AnimalStore
	Costs     mongodb.CostStore
	Settings  mongodb.SettingsStore
	Snapshots mongodb.SnapshotStore
}

// Option configures optional integrations of the Service.
type Option func(*Service)

// WithSheet appends every captured snapshot to a Google Sheet.
func WithSheet(repo sheetsrepo.Repository) Option {
	return func(s *Service) { s.sheet = repo }
}

// WithDigest sends a short summary of every captured snapshot to recipient.
func WithDigest(sender whatsapp.Sender, recipient string) Option {
	return func(s *Service) {
		s.sender = sender
		s.recipient = recipient
	}
}

// Service computes portfolio indicators and publishes them.
type Service struct {
	stores    Stores
	formatter *indicators.Formatter
	sheet     sheetsrepo.Repository
	sender    whatsapp.Sender
	recipient string
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(stores Stores, formatter *indicators.Formatter, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		stores:    stores,
		formatter: formatter,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Indicators computes the current portfolio summary over the whole herd.
func (s *Service) Indicators(ctx context.Context) (models.PortfolioSummary, error) {
	animals, err := s.stores.Animals.FindAll(ctx)
	if err != nil {
		return models.PortfolioSummary{}, fmt.Errorf("load animals: %w", err)
	}

	costs, err := s.stores.Costs.FindAll(ctx)
	if err != nil {
		return models.PortfolioSummary{}, fmt.Errorf("load costs: %w", err)
	}

	totalCosts, err := s.stores.Costs.SumAmounts(ctx, models.CostFilter{})
	if err != nil {
		return models.PortfolioSummary{}, fmt.Errorf("sum costs: %w", err)
	}

	settings, err := s.stores.Settings.GetOrCreate(ctx, models.DefaultSettings())
	if err != nil {
		return models.PortfolioSummary{}, fmt.Errorf("load settings: %w", err)
	}

	return indicators.Summarize(animals, indicators.CostsByAnimal(costs), totalCosts, settings.Cash), nil
}

// CaptureSnapshot stores the current indicators and publishes them to the configured integrations.
// Publishing failures are logged; the stored snapshot is still returned.
func (s *Service) CaptureSnapshot(ctx context.Context, now time.Time) (models.IndicatorSnapshot, error) {
	summary, err := s.Indicators(ctx)
	if err != nil {
		return models.IndicatorSnapshot{}, err
	}

	snapshot, err := s.stores.Snapshots.Save(ctx, models.IndicatorSnapshot{TakenAt: now.UTC(), Summary: summary})
	if err != nil {
		return models.IndicatorSnapshot{}, fmt.Errorf("save snapshot: %w", err)
	}
	s.logger.Info("indicator snapshot captured",
		zap.String("snapshot_id", snapshot.ID),
		zap.String("net_worth", summary.NetWorth.StringFixed(2)))

	if s.sheet != nil {
		if err := s.appendSheetRow(ctx, snapshot); err != nil {
			s.logger.Error("failed to append snapshot to sheet", zap.String("snapshot_id", snapshot.ID), zap.Error(err))
		}
	}

	if s.sender != nil && s.recipient != "" {
		messageID, err := s.sender.SendText(ctx, s.recipient, s.Digest(snapshot))
		if err != nil {
			s.logger.Error("failed to send snapshot digest", zap.String("snapshot_id", snapshot.ID), zap.Error(err))
		} else {
			s.logger.Info("snapshot digest sent", zap.String("message_id", messageID))
		}
	}

	return snapshot, nil
}

// LatestSnapshot returns the most recently captured snapshot.
func (s *Service) LatestSnapshot(ctx context.Context) (models.IndicatorSnapshot, error) {
	return s.stores.Snapshots.Latest(ctx)
}
