package captable

import (
	"errors"
	"fmt"

	"github.com/etnz/captable/date"
)

// Security is a funding instrument: a class of common or preferred stock, a
// convertible note, an option plan or a warrant.
type Security struct {
	ID        string       // ID is the unique identifier certificates refer to.
	Name      string       // Name is the display name, e.g. "Series A Preferred".
	Type      SecurityType // Type selects the accounting rules of its certificates.
	Date      date.Date    // Date is the issuance date.
	Seniority int          // Seniority orders liquidation tiers, higher is paid first.

	// PricePerShare is the purchase or strike price. For convertibles it is
	// the default conversion price used in a liquidation.
	PricePerShare Money

	ConversionRatio       Ratio // ConversionRatio is the preferred to common multiplier.
	LiquidationPreference Ratio // LiquidationPreference is the multiple returned before junior tiers.
	Participating         bool  // Participating preferred shares the residual with common.
	ParticipationCap      Ratio // ParticipationCap caps a participating payout, 0 means uncapped.

	// Convertible note terms.
	PriceCap     Money // PriceCap is the valuation cap, 0 means no cap.
	DiscountRate Ratio // DiscountRate is the discount on the next round, 0 means no discount.
	InterestRate Ratio // InterestRate is the simple yearly interest rate.
	Pre          Money // Pre is the default pre-money valuation used for conversion.

	// ConversionSecurity is the ID of the security a convertible converts into.
	ConversionSecurity string
}

// Validate checks the security for correctness and applies quick fixes: the
// weak currency is replaced by cur and a preferred security without
// conversion ratio or liquidation preference gets 1.
// It returns the fixed security or an error with all the validation failures.
func (s Security) Validate(cur string) (Security, error) {
	var errs []error
	if s.ID == "" {
		errs = append(errs, fmt.Errorf("%w: security has no id", ErrInvalidInput))
	}
	if s.Seniority < 1 {
		errs = append(errs, fmt.Errorf("%w: security %q seniority must be at least 1, got %d", ErrInvalidInput, s.ID, s.Seniority))
	}

	for _, m := range []*Money{&s.PricePerShare, &s.PriceCap, &s.Pre} {
		if m.cur == "" {
			*m = m.in(cur)
		} else if m.cur != cur {
			errs = append(errs, fmt.Errorf("%w: security %q amount %s is not in %s", ErrInvalidInput, s.ID, m, cur))
		}
		if m.IsNegative() {
			errs = append(errs, fmt.Errorf("%w: security %q amount %s is negative", ErrInvalidInput, s.ID, m))
		}
	}
	s.PricePerShare = s.PricePerShare.exact()

	for _, r := range []Ratio{s.ConversionRatio, s.LiquidationPreference, s.ParticipationCap, s.DiscountRate, s.InterestRate} {
		if r.IsNegative() {
			errs = append(errs, fmt.Errorf("%w: security %q has a negative term %s", ErrInvalidInput, s.ID, r))
		}
	}

	switch s.Type {
	case Preferred:
		if s.ConversionRatio.IsZero() {
			s.ConversionRatio = One
		}
		if s.LiquidationPreference.IsZero() {
			s.LiquidationPreference = One
		}
	case Convertible:
		if !s.PricePerShare.IsPositive() {
			errs = append(errs, fmt.Errorf("%w: convertible %q needs a positive default conversion price", ErrInvalidInput, s.ID))
		}
		if s.DiscountRate.GreaterThanOrEqual(One) {
			errs = append(errs, fmt.Errorf("%w: convertible %q discount rate must be less than 1, got %s", ErrInvalidInput, s.ID, s.DiscountRate))
		}
	}
	if s.ConversionSecurity == s.ID && s.ID != "" {
		errs = append(errs, fmt.Errorf("%w: security %q converts into itself", ErrInvalidInput, s.ID))
	}
	return s, errors.Join(errs...)
}

// Addition is a dated increase of a security's authorized pool.
type Addition struct {
	Date       date.Date
	Security   string
	Authorized Quantity
}

// Validate checks the addition against the cap table.
func (a Addition) Validate(t *CapTable) error {
	if t.Security(a.Security) == nil {
		return fmt.Errorf("%w: addition refers to unknown security %q", ErrInvalidInput, a.Security)
	}
	if !a.Authorized.IsPositive() {
		return fmt.Errorf("%w: addition to %q must authorize a positive count, got %s", ErrInvalidInput, a.Security, a.Authorized)
	}
	return nil
}
