package captable

import (
	"errors"
	"fmt"

	"github.com/etnz/captable/date"
)

// Certificate is one holder's position in one Security.
//
// Exactly one consideration triple is meaningful, selected by the security
// class: Shares/Returned/Cash/Refunded for equity, Principal/Forgiven for
// debt, Granted/Exercised/Cancelled (and Cash/Refunded) for rights.
type Certificate struct {
	ID          string
	Name        string
	Security    string // Security is the ID of the parent security.
	Shareholder string // Shareholder is the registered holder.
	Investor    string // Investor is the entity behind the holder, defaults to Shareholder.
	Status      Status
	Date        date.Date
	// ConvertedDate stops interest accrual on a convertible.
	ConvertedDate date.Date

	Shares   Quantity
	Returned Quantity
	Cash     Money
	Refunded Money

	Principal Money
	Forgiven  Money

	Granted   Quantity
	Exercised Quantity
	Cancelled Quantity

	Prorata bool // Prorata is set when the holder exercises a pro-rata right.

	VestingStart     date.Date
	VestingStop      date.Date // VestingStop halts vesting, e.g. on termination.
	VestingTerm      int       // VestingTerm is the vesting length in months.
	VestingCliff     int       // VestingCliff is the number of months before anything vests.
	VestingImmediate Ratio     // VestingImmediate is the fraction vested at grant.
	VestingTrigger   Trigger
}

// Holder returns the investor name, or the shareholder when there is none.
func (c Certificate) Holder() string {
	if c.Investor != "" {
		return c.Investor
	}
	return c.Shareholder
}

// Validate checks the certificate against the cap table and applies quick
// fixes: weak currency amounts get the cap table currency.
func (c Certificate) Validate(t *CapTable) (Certificate, error) {
	sec := t.Security(c.Security)
	if sec == nil {
		return c, fmt.Errorf("%w: certificate %q refers to unknown security %q", ErrInvalidInput, c.ID, c.Security)
	}
	var errs []error
	if c.ID == "" {
		errs = append(errs, fmt.Errorf("%w: certificate has no id", ErrInvalidInput))
	}
	if c.Holder() == "" {
		errs = append(errs, fmt.Errorf("%w: certificate %q has no holder", ErrInvalidInput, c.ID))
	}

	for _, m := range []*Money{&c.Cash, &c.Refunded, &c.Principal, &c.Forgiven} {
		if m.cur == "" {
			*m = m.in(t.Currency())
		} else if m.cur != t.Currency() {
			errs = append(errs, fmt.Errorf("%w: certificate %q amount %s is not in %s", ErrInvalidInput, c.ID, m, t.Currency()))
		}
		if m.IsNegative() {
			errs = append(errs, fmt.Errorf("%w: certificate %q amount %s is negative", ErrInvalidInput, c.ID, m))
		}
	}
	for _, q := range []Quantity{c.Shares, c.Returned, c.Granted, c.Exercised, c.Cancelled} {
		if q.IsNegative() {
			errs = append(errs, fmt.Errorf("%w: certificate %q count %s is negative", ErrInvalidInput, c.ID, q))
		}
	}

	switch sec.Type.Class() {
	case Equity:
		if c.Returned.GreaterThan(c.Shares) {
			errs = append(errs, fmt.Errorf("%w: certificate %q returns %s shares out of %s", ErrInvalidInput, c.ID, c.Returned, c.Shares))
		}
	case Debt:
		if c.Date.IsZero() {
			errs = append(errs, fmt.Errorf("%w: convertible certificate %q needs a date to accrue interest", ErrInvalidInput, c.ID))
		}
		if c.Forgiven.GreaterThan(c.Principal) {
			errs = append(errs, fmt.Errorf("%w: certificate %q forgives %s out of %s", ErrInvalidInput, c.ID, c.Forgiven, c.Principal))
		}
	case Rights:
		if c.Exercised.Add(c.Cancelled).GreaterThan(c.Granted) {
			errs = append(errs, fmt.Errorf("%w: certificate %q exercises and cancels more than the %s granted", ErrInvalidInput, c.ID, c.Granted))
		}
	}

	if c.VestingTerm < 0 || c.VestingCliff < 0 {
		errs = append(errs, fmt.Errorf("%w: certificate %q vesting months must not be negative", ErrInvalidInput, c.ID))
	}
	if c.VestingImmediate.IsNegative() || c.VestingImmediate.GreaterThan(One) {
		errs = append(errs, fmt.Errorf("%w: certificate %q immediate vesting must be within [0,1], got %s", ErrInvalidInput, c.ID, c.VestingImmediate))
	}
	return c, errors.Join(errs...)
}
