// Package wallet holds the points wallet rules the portal checks before
// calling the backend, and loads the wallet page's three panels.
package wallet

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	PointsPerRupee    = 5
	MinAddPoints      = 500
	MaxAddPoints      = 100000
	MinWithdrawPoints = 500
	// TransactionWindow caps how many transactions and redemptions are
	// fetched; the tables page through them in memory.
	TransactionWindow = 200
)

var (
	ErrPointsFormat = errors.New("wallet: points must be a whole number")
	ErrAddRange     = fmt.Errorf("wallet: points must be between %d and %d", MinAddPoints, MaxAddPoints)
	ErrWithdrawMin  = fmt.Errorf("wallet: minimum withdrawal is %d points", MinWithdrawPoints)
	ErrOverBalance  = errors.New("wallet: insufficient balance")
	ErrUPIFormat    = errors.New("wallet: invalid UPI ID")
)

var upiPattern = regexp.MustCompile(`^[\w.\-]{2,256}@[a-zA-Z]{2,64}$`)

// RupeesForPoints is the price of p points, rounded up to whole rupees.
func RupeesForPoints(p int) decimal.Decimal {
	if p <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(p)).Div(decimal.NewFromInt(PointsPerRupee)).Ceil()
}

// FormatRupees renders an amount as "₹1,234".
func FormatRupees(d decimal.Decimal) string {
	s := d.StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-₹" + b.String()
	}
	return "₹" + b.String()
}

// ParsePoints reads a points field.
func ParsePoints(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, ErrPointsFormat
	}
	return n, nil
}

// ValidateAdd checks a top-up amount.
func ValidateAdd(points int) error {
	if points < MinAddPoints || points > MaxAddPoints {
		return ErrAddRange
	}
	return nil
}

// ValidUPI reports whether id looks like a UPI address.
func ValidUPI(id string) bool { return upiPattern.MatchString(id) }

// ValidateWithdraw checks a redemption request against the known balance.
func ValidateWithdraw(upiID string, points, balance int) error {
	if !ValidUPI(strings.TrimSpace(upiID)) {
		return ErrUPIFormat
	}
	if points < MinWithdrawPoints {
		return ErrWithdrawMin
	}
	if points > balance {
		return ErrOverBalance
	}
	return nil
}

// Message turns a validation error into form text.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrPointsFormat):
		return "Please enter a whole number of points."
	case errors.Is(err, ErrAddRange):
		return fmt.Sprintf("Points must be between %d and %d.", MinAddPoints, MaxAddPoints)
	case errors.Is(err, ErrWithdrawMin):
		return fmt.Sprintf("Minimum withdrawal is %d points.", MinWithdrawPoints)
	case errors.Is(err, ErrOverBalance):
		return "Insufficient balance."
	case errors.Is(err, ErrUPIFormat):
		return "Please enter a valid UPI ID (e.g. name@bank)."
	}
	return "Something went wrong. Please try again."
}
