package estimate

import (
	"fmt"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders whole-dollar amounts with locale digit grouping.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter creates a Formatter for a BCP 47 locale such as "en-US".
func NewFormatter(locale, symbol string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, eris.Wrapf(err, "estimate: parse locale %q", locale)
	}
	return &Formatter{printer: message.NewPrinter(tag), symbol: symbol}, nil
}

// DefaultFormatter formats US dollars for en-US.
func DefaultFormatter() *Formatter {
	return &Formatter{printer: message.NewPrinter(language.AmericanEnglish), symbol: "$"}
}

// Money formats an amount with no decimal places, e.g. "$1,250,000".
func (f *Formatter) Money(amount int64) string {
	sign, abs := magnitude(amount)
	return sign + f.symbol + f.printer.Sprintf("%d", abs)
}

// Range formats a low/high pair, e.g. "$10,500 - $27,000".
func (f *Formatter) Range(low, high int64) string {
	return f.Money(low) + " - " + f.Money(high)
}

// Compact formats an amount in short form, e.g. "$1.3M".
func (f *Formatter) Compact(amount int64) string {
	sign, abs := magnitude(amount)
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%s%s%.1fB", sign, f.symbol, float64(abs)/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%s%s%.1fM", sign, f.symbol, float64(abs)/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%s%s%.0fK", sign, f.symbol, float64(abs)/1_000)
	default:
		return fmt.Sprintf("%s%s%d", sign, f.symbol, abs)
	}
}

// magnitude splits amount into a sign and an absolute value that is exact
// even for math.MinInt64.
func magnitude(amount int64) (string, uint64) {
	if amount < 0 {
		return "-", uint64(-(amount + 1)) + 1
	}
	return "", uint64(amount)
}
