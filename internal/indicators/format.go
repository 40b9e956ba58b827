package indicators

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const isoDateLayout = "2006-01-02"

// shortDateLayouts maps a locale (full tag first, then base language) to its short date layout.
var shortDateLayouts = map[string]string{
	"en-US": "01/02/2006",
	"en":    "02/01/2006",
	"pt":    "02/01/2006",
	"es":    "02/01/2006",
	"fr":    "02/01/2006",
	"it":    "02/01/2006",
	"de":    "02.01.2006",
}

// Formatter renders figures for people using a configured locale and currency.
type Formatter struct {
	printer    *message.Printer
	symbol     string
	decimalSep string
	dateLayout string
}

// NewFormatter builds a Formatter for a BCP 47 locale such as "pt-BR" and an ISO 4217 currency code such as "BRL".
func NewFormatter(locale, currencyCode string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}

	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", currencyCode, err)
	}

	printer := message.NewPrinter(tag)
	symbol := printer.Sprint(currency.Symbol(unit))
	if symbol == "" {
		symbol = unit.String()
	}

	return &Formatter{
		printer:    printer,
		symbol:     symbol,
		decimalSep: decimalSeparator(printer),
		dateLayout: dateLayoutFor(tag),
	}, nil
}

// Currency renders an amount as localized currency text, e.g. "R$ 1.234,50".
// Whole units are grouped by the locale printer from an int64 and cents are appended from the exact
// decimal, so no float conversion is involved.
func (f *Formatter) Currency(amount decimal.Decimal) string {
	rounded := Round(amount)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	whole := rounded.Truncate(0)
	cents := rounded.Sub(whole).Shift(MoneyPlaces).IntPart()

	units := whole.String()
	if whole.BigInt().IsInt64() {
		units = f.printer.Sprint(number.Decimal(whole.IntPart()))
	}

	return fmt.Sprintf("%s %s%s%s%0*d", f.symbol, sign, units, f.decimalSep, MoneyPlaces, cents)
}

// Percent renders a value with exactly two fraction digits and a trailing percent sign.
func (f *Formatter) Percent(value decimal.Decimal) string {
	return Percent(value)
}

// Date renders a date as a localized short date.
func (f *Formatter) Date(t time.Time) string {
	return t.Format(f.dateLayout)
}

// Percent renders a value with exactly two fraction digits and a trailing percent sign.
func Percent(value decimal.Decimal) string {
	return Round(value).StringFixed(MoneyPlaces) + "%"
}

// decimalSeparator asks the printer how it renders 1.5 and keeps what sits between the digits.
func decimalSeparator(printer *message.Printer) string {
	sample := printer.Sprint(number.Decimal(1.5, number.Scale(1)))
	sep := strings.TrimSuffix(strings.TrimPrefix(sample, "1"), "5")
	if sep == "" || sep == sample {
		return "."
	}
	return sep
}

func dateLayoutFor(tag language.Tag) string {
	if layout, ok := shortDateLayouts[tag.String()]; ok {
		return layout
	}
	base, _ := tag.Base()
	if layout, ok := shortDateLayouts[base.String()]; ok {
		return layout
	}
	return isoDateLayout
}
