package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/jschof1/val-des-roses/pkg/errors"
)

// Money represents a monetary amount in a single currency. Amounts are stored
// as integer cents to avoid floating point drift; the JSON form uses the
// decimal string representation the storefront API speaks ("45.00").
type Money struct {
	Cents        int64
	CurrencyCode string
}

type moneyJSON struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// NewMoney creates a Money value from integer cents.
func NewMoney(cents int64, currencyCode string) Money {
	return Money{Cents: cents, CurrencyCode: currencyCode}
}

// ParseMoney parses a decimal amount string ("45.00", "45.5", "45") into
// Money. At most two fractional digits are accepted.
func ParseMoney(amount, currencyCode string) (Money, error) {
	cents, err := parseCents(amount)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents, CurrencyCode: currencyCode}, nil
}

func parseCents(amount string) (int64, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return 0, apperrors.InvalidInput("amount is required")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, apperrors.InvalidInput(fmt.Sprintf("amount %q has more than two decimal places", amount))
	}
	// Both parts must be bare digits. ParseInt alone would let a sign
	// slip into the fraction, turning "45.-5" into 44.95.
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return 0, apperrors.InvalidInput(fmt.Sprintf("amount %q is not a valid decimal", amount))
	}
	for len(frac) < 2 {
		frac += "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, apperrors.InvalidInput(fmt.Sprintf("amount %q is not a valid decimal", amount))
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, apperrors.InvalidInput(fmt.Sprintf("amount %q is not a valid decimal", amount))
	}

	cents := w*100 + f
	if negative {
		cents = -cents
	}
	return cents, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Amount returns the decimal string representation ("45.00").
func (m Money) Amount() string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// Add returns the sum of two amounts. Adding across currencies is a
// programming error and returns ErrInvalidInput.
func (m Money) Add(other Money) (Money, error) {
	if m.CurrencyCode != other.CurrencyCode {
		return Money{}, apperrors.InvalidInput(
			fmt.Sprintf("cannot add %s to %s", other.CurrencyCode, m.CurrencyCode))
	}
	return Money{Cents: m.Cents + other.Cents, CurrencyCode: m.CurrencyCode}, nil
}

// Mul returns the amount multiplied by a quantity.
func (m Money) Mul(quantity int) Money {
	return Money{Cents: m.Cents * int64(quantity), CurrencyCode: m.CurrencyCode}
}

// IsZero reports whether the amount is zero cents.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

func (m Money) String() string {
	return m.Amount() + " " + m.CurrencyCode
}

// MarshalJSON implements json.Marshaler using the wire format
// {"amount":"45.00","currencyCode":"EUR"}.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.Amount(), CurrencyCode: m.CurrencyCode})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseMoney(raw.Amount, raw.CurrencyCode)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
