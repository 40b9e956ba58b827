package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultAnimalTypes seeds the settings record the first time it is read.
var DefaultAnimalTypes = []string{"Garrote", "Boi", "Novilha", "Bezerro", "Vaca", "Vaca c/ Bezerro"}

// Settings is the process-wide configuration record. Exactly one exists.
type Settings struct {
	AnimalTypes          []string        `json:"animalTypes"`
	Cash                 decimal.Decimal `json:"cash"`
	AdditionalInvestment decimal.Decimal `json:"additionalInvestment"`
	Version              int64           `json:"version"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// DefaultSettings returns the starter settings with zero balances.
func DefaultSettings() Settings {
	types := make([]string, len(DefaultAnimalTypes))
	copy(types, DefaultAnimalTypes)
	return Settings{
		AnimalTypes:          types,
		Cash:                 decimal.Zero,
		AdditionalInvestment: decimal.Zero,
	}
}
