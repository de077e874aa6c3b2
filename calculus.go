package captable

import "fmt"

// Certificate accessors. Each branches on the parent security type; an
// accessor returning a boolean reports false when the quantity is not
// applicable to the instrument, which is distinct from a computed zero.

// Outstanding returns the shares (equity) or the rights (options, warrants)
// still held. It is not applicable to convertibles, see OutstandingDebt.
func (s *Snapshot) Outstanding(c Certificate) (Quantity, bool) {
	switch s.security(c).Type.Class() {
	case Equity:
		return c.Shares.Sub(c.Returned), true
	case Rights:
		return c.Granted.Sub(c.Cancelled).Sub(c.Exercised), true
	default:
		return Quantity{}, false
	}
}

// OutstandingDebt returns the accrued debt not forgiven of a convertible.
func (s *Snapshot) OutstandingDebt(c Certificate) (Money, bool) {
	accrued, ok := s.Accrued(c)
	if !ok {
		return Money{}, false
	}
	return accrued.Sub(c.Forgiven), true
}

// Paid returns the consideration paid for the certificate.
func (s *Snapshot) Paid(c Certificate) Money {
	if s.security(c).Type == Convertible {
		return c.Principal.Sub(c.Forgiven)
	}
	return c.Cash.Sub(c.Refunded)
}

// Accrued returns the principal of a convertible plus its simple interest,
// rounded to the cent. Interest runs from the certificate date to its
// conversion date, or to the snapshot date if it has not converted.
func (s *Snapshot) Accrued(c Certificate) (Money, bool) {
	sec := s.security(c)
	if sec.Type != Convertible {
		return Money{}, false
	}
	end := c.ConvertedDate
	if end.IsZero() {
		end = s.on
	}
	days := end.Sub(c.Date)
	interest := c.Principal.Scale(sec.InterestRate).Scale(R(days)).DivRatio(R(365))
	return c.Principal.Add(interest).Round(2), true
}

// Converted returns the certificate as common-equivalent shares. Options and
// warrants count as fully exercised, vested or not.
func (s *Snapshot) Converted(c Certificate) (Quantity, bool) {
	if c.Status != Outstanding {
		return Quantity{}, false
	}
	sec := s.security(c)
	switch sec.Type {
	case Preferred:
		out, _ := s.Outstanding(c)
		return out.Scale(sec.ConversionRatio), true
	case Convertible:
		return s.Exchanged(c)
	case Option, Warrant:
		return c.Granted.Sub(c.Cancelled).Sub(c.Exercised), true
	default:
		return s.Outstanding(c)
	}
}

// Diluted returns the certificate on a fully diluted basis, ignoring vesting.
func (s *Snapshot) Diluted(c Certificate) (Quantity, bool) {
	return s.Converted(c)
}

// Vested returns the shares counted for the holder in a liquidation.
//
// Preferred stock does not vest. Convertibles convert at their default
// price. Common stock, options and warrants return the full current stake:
// a single trigger vests everything on a change of control and month-based
// proration is only applied by VestedOn.
func (s *Snapshot) Vested(c Certificate) Quantity {
	if c.Status != Outstanding {
		return Quantity{}
	}
	sec := s.security(c)
	switch sec.Type {
	case Convertible:
		debt, _ := s.OutstandingDebt(c)
		return debt.DivPrice(sec.PricePerShare)
	default:
		stake, _ := s.Outstanding(c)
		return stake
	}
}

// Liquidated returns the shares counted in a liquidation: preferred as
// converted, convertibles at their default conversion price, all warrants,
// and vested common and options.
//
// A convertible in Converted status still liquidates, at the terms of the
// security it converted into. Other certificates not outstanding do not.
func (s *Snapshot) Liquidated(c Certificate) Quantity {
	sec := s.security(c)
	if sec.Type == Convertible && c.Status == Converted {
		succ := s.Security(sec.ConversionSecurity)
		if succ == nil || !succ.PricePerShare.IsPositive() {
			return Quantity{}
		}
		disc, _ := s.Discounted(c, succ.Pre)
		return disc.DivPrice(succ.PricePerShare)
	}
	if c.Status != Outstanding {
		return Quantity{}
	}
	switch sec.Type {
	case Preferred:
		return c.Shares.Scale(sec.ConversionRatio)
	case Convertible:
		q, _ := s.Exchanged(c)
		return q
	case Warrant:
		return c.Granted
	default:
		return s.Vested(c)
	}
}

// Preference returns the cash claimed by the certificate ahead of common.
//
// A convertible shares the liquidation preference of the security it
// converts into, or claims its outstanding debt when it has none.
func (s *Snapshot) Preference(c Certificate) (Money, bool) {
	if c.Status != Outstanding {
		return Money{}, false
	}
	sec := s.security(c)
	switch sec.Type {
	case Preferred:
		out, _ := s.Outstanding(c)
		return sec.PricePerShare.Mul(out).Scale(sec.LiquidationPreference), true
	case Convertible:
		debt, _ := s.OutstandingDebt(c)
		if succ := s.Security(sec.ConversionSecurity); succ != nil {
			return debt.Scale(succ.LiquidationPreference), true
		}
		return debt, true
	default:
		return Money{}, false
	}
}

// Discounted returns the purchase power of a convertible in a round priced
// at pre: the better of the discount method and the valuation cap method.
// A zero pre uses the security default pre-money valuation.
func (s *Snapshot) Discounted(c Certificate, pre Money) (Money, bool) {
	sec := s.security(c)
	if sec.Type != Convertible {
		return Money{}, false
	}
	accrued, _ := s.Accrued(c)
	if pre.IsZero() {
		pre = sec.Pre
	}
	best := accrued
	if !sec.DiscountRate.IsZero() {
		best = accrued.DivRatio(One.Sub(sec.DiscountRate))
	}
	if !sec.PriceCap.IsZero() {
		best = best.Max(accrued.Scale(pre.Rata(sec.PriceCap)))
	}
	return best, true
}

// Conversion holds the terms of a priced round a convertible converts into.
type Conversion struct {
	pre   Money
	price Money
}

// NewConversion returns conversion terms at a pre-money valuation and a
// price per share. A zero pre uses each security default.
func NewConversion(pre, price Money) (Conversion, error) {
	if pre.IsNegative() {
		return Conversion{}, fmt.Errorf("%w: pre-money valuation must not be negative, got %s", ErrInvalidInput, pre)
	}
	if !price.IsPositive() {
		return Conversion{}, fmt.Errorf("%w: conversion price must be positive, got %s", ErrDegenerate, price)
	}
	return Conversion{pre: pre, price: price}, nil
}

// Pre returns the pre-money valuation of the conversion.
func (v Conversion) Pre() Money { return v.pre }

// Price returns the price per share of the conversion.
func (v Conversion) Price() Money { return v.price }

// Exchanged returns the shares a convertible converts into at its default
// conversion price.
func (s *Snapshot) Exchanged(c Certificate) (Quantity, bool) {
	sec := s.security(c)
	if sec.Type != Convertible {
		return Quantity{}, false
	}
	accrued, _ := s.Accrued(c)
	return accrued.DivPrice(sec.PricePerShare), true
}

// ExchangedAt returns the shares a convertible converts into in a priced round.
func (s *Snapshot) ExchangedAt(c Certificate, v Conversion) (Quantity, bool) {
	disc, ok := s.Discounted(c, v.pre)
	if !ok {
		return Quantity{}, false
	}
	return disc.DivPrice(v.price), true
}

// Prorata returns the part of newShares a holder with a pro-rata right
// takes to keep its fully diluted ownership. It is zero for holders without
// the right, for certificates no longer outstanding and for convertibles,
// which hold no shares yet.
func (s *Snapshot) Prorata(c Certificate, newShares, fullyDiluted Quantity) (Quantity, error) {
	if !c.Prorata || c.Status != Outstanding {
		return Quantity{}, nil
	}
	if fullyDiluted.IsZero() {
		return Quantity{}, fmt.Errorf("%w: pro-rata of certificate %q on a zero fully diluted total", ErrDegenerate, c.ID)
	}
	out, ok := s.Outstanding(c)
	if !ok {
		return Quantity{}, nil
	}
	return newShares.Scale(out.Rata(fullyDiluted)), nil
}

// Proceeds returns the cash paid to the certificate in a liquidation at the
// given tier prices.
func (s *Snapshot) Proceeds(c Certificate, prices Prices) Money {
	l := s.Liquidated(c)
	if l.IsZero() {
		return M(0, s.cur)
	}
	return prices.Price(s.security(c).Seniority).Mul(l)
}
