package reporting

import (
	"fmt"
	"strings"

	"github.com/mamadbah2/herdledger/internal/domain/models"
)

// Digest renders a snapshot as a short localized text message.
func (s *Service) Digest(snapshot models.IndicatorSnapshot) string {
	f := s.formatter
	sum := snapshot.Summary

	var b strings.Builder
	fmt.Fprintf(&b, "Herd indicators %s\n", f.Date(snapshot.TakenAt))
	fmt.Fprintf(&b, "Net worth: %s\n", f.Currency(sum.NetWorth))
	fmt.Fprintf(&b, "Invested: %s\n", f.Currency(sum.CurrentInvestedValue))
	fmt.Fprintf(&b, "Costs: %s\n", f.Currency(sum.TotalCosts))
	fmt.Fprintf(&b, "Gross profit: %s\n", f.Currency(sum.TotalGrossProfit))
	fmt.Fprintf(&b, "Net profit: %s\n", f.Currency(sum.TotalNetProfit))
	fmt.Fprintf(&b, "Average ROI: %s\n", f.Percent(sum.AverageROI))
	fmt.Fprintf(&b, "Cash: %s\n", f.Currency(sum.Cash))
	fmt.Fprintf(&b, "Animals: %d active, %d sold", sum.ActiveAnimalCount, sum.SoldAnimalCount)
	return b.String()
}
