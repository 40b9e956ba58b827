package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/mamadbah2/herdledger/internal/domain/models"
)

const (
	snapshotDataRange   = "Indicators!A:J"
	snapshotHeaderRange = "Indicators!A1:J1"
)

var snapshotHeader = []interface{}{
	"Taken At", "Net Worth", "Invested Value", "Total Costs", "Gross Profit",
	"Net Profit", "Average ROI", "Cash", "Active Animals", "Sold Animals",
}

func (s *Service) appendSheetRow(ctx context.Context, snapshot models.IndicatorSnapshot) error {
	header, err := s.sheet.ReadRange(ctx, snapshotHeaderRange)
	if err != nil {
		return fmt.Errorf("read sheet header: %w", err)
	}
	if len(header) == 0 {
		if err := s.sheet.AppendRow(ctx, snapshotDataRange, snapshotHeader); err != nil {
			return fmt.Errorf("write sheet header: %w", err)
		}
	}

	if err := s.sheet.AppendRow(ctx, snapshotDataRange, snapshotRow(snapshot)); err != nil {
		return fmt.Errorf("append snapshot row: %w", err)
	}
	return nil
}

func snapshotRow(snapshot models.IndicatorSnapshot) []interface{} {
	sum := snapshot.Summary
	return []interface{}{
		snapshot.TakenAt.Format(time.RFC3339),
		sum.NetWorth.StringFixed(2),
		sum.CurrentInvestedValue.StringFixed(2),
		sum.TotalCosts.StringFixed(2),
		sum.TotalGrossProfit.StringFixed(2),
		sum.TotalNetProfit.StringFixed(2),
		sum.AverageROI.StringFixed(2),
		sum.Cash.StringFixed(2),
		sum.ActiveAnimalCount,
		sum.SoldAnimalCount,
	}
}
