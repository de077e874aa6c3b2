package captable

import (
	"errors"
	"fmt"
)

// Financing describes the terms of a proposed priced round.
type Financing struct {
	NewMoney     Money // NewMoney is the cash raised.
	PreValuation Money // PreValuation is the pre-money valuation.
	PoolRata     Ratio // PoolRata is the target post-money option pool, 0 keeps the pool as is.
}

// Validate checks the financing terms.
func (f Financing) Validate() error {
	var errs []error
	if !f.NewMoney.IsPositive() {
		errs = append(errs, fmt.Errorf("%w: new money must be positive, got %s", ErrInvalidInput, f.NewMoney))
	}
	if !f.PreValuation.IsPositive() {
		errs = append(errs, fmt.Errorf("%w: pre-money valuation must be positive, got %s", ErrInvalidInput, f.PreValuation))
	}
	if f.PoolRata.IsNegative() || f.PoolRata.GreaterThanOrEqual(One) {
		errs = append(errs, fmt.Errorf("%w: pool rata must be within [0,1), got %s", ErrInvalidInput, f.PoolRata))
	}
	return errors.Join(errs...)
}

// ProformaResult is the projected capitalization after a financing.
type ProformaResult struct {
	Financing Financing

	Price           Money // Price is the price per share of the round.
	PostValuation   Money
	NewInvestorRata Ratio // NewInvestorRata is the post-money ownership bought with the new money.
	ConvertRata     Ratio // ConvertRata is the post-money ownership owed to convertible holders.
	CombinedRata    Ratio

	Available Quantity // Available is the unallocated option pool before the round.
	PreShares Quantity // PreShares is the outstanding share count before the round.
	Expansion Quantity // Expansion is the total number of new shares.

	NewMoneyShares     Quantity // NewMoneyShares is bought with the new money.
	NewProrataShares   Quantity // NewProrataShares is the part of NewMoneyShares taken by pro-rata holders.
	NewInvestorShares  Quantity // NewInvestorShares is the part of NewMoneyShares left to new investors.
	NewConvertedShares Quantity // NewConvertedShares is issued to convertible holders.
	NewPoolShares      Quantity // NewPoolShares expands the option pool.

	NewProrataCash  Money // NewProrataCash is the new money brought by pro-rata holders.
	NewInvestorCash Money // NewInvestorCash is the new money brought by new investors.
}

// Proforma solves the share counts of a financing.
//
// Every party's target post-money ownership (new investor, converting notes,
// expanded pool) is met at the same price: the pre-money share base is
// inflated by combined/(1-combined) and the expansion is split by rata.
// When the pool is not resized, the available pool is part of the base.
func (s *Snapshot) Proforma(f Financing) (*ProformaResult, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	r := &ProformaResult{Financing: f}
	r.PostValuation = f.PreValuation.Add(f.NewMoney)
	r.NewInvestorRata = f.NewMoney.Rata(r.PostValuation)
	r.ConvertRata = s.TotalDiscounted(f.PreValuation).Rata(r.PostValuation)
	r.Available = s.TotalAvailable()
	r.PreShares = s.TotalOutstanding()
	r.CombinedRata = r.NewInvestorRata.Add(r.ConvertRata).Add(f.PoolRata)

	if r.CombinedRata.IsZero() || r.CombinedRata.GreaterThanOrEqual(One) {
		return nil, fmt.Errorf("%w: combined rata %s leaves no room for existing holders", ErrDegenerate, r.CombinedRata)
	}
	base := r.PreShares
	if f.PoolRata.IsZero() {
		base = base.Add(r.Available)
	}
	if base.IsZero() {
		return nil, fmt.Errorf("%w: no pre-money shares", ErrDegenerate)
	}

	r.Expansion = base.Scale(r.CombinedRata.Div(One.Sub(r.CombinedRata)))
	r.NewMoneyShares = r.Expansion.Scale(r.NewInvestorRata.Div(r.CombinedRata))
	r.NewConvertedShares = r.Expansion.Scale(r.ConvertRata.Div(r.CombinedRata))
	if !f.PoolRata.IsZero() {
		r.NewPoolShares = r.Expansion.Sub(r.NewMoneyShares).Sub(r.NewConvertedShares).Sub(r.Available)
	}
	if r.NewMoneyShares.IsZero() {
		return nil, fmt.Errorf("%w: the new money buys no shares", ErrDegenerate)
	}

	prorata, err := s.TotalProrata(r.NewMoneyShares)
	if err != nil {
		return nil, err
	}
	r.NewProrataShares = prorata
	r.NewInvestorShares = r.NewMoneyShares.Sub(prorata)

	r.Price = f.NewMoney.Div(r.NewMoneyShares)
	r.NewProrataCash = r.Price.Mul(prorata).Round(2)
	r.NewInvestorCash = f.NewMoney.Sub(r.NewProrataCash)
	return r, nil
}

// PostShares returns the fully diluted share count after the round.
func (r *ProformaResult) PostShares() Quantity {
	post := r.PreShares.Add(r.Available).Add(r.Expansion)
	if !r.Financing.PoolRata.IsZero() {
		post = post.Sub(r.Available)
	}
	return post
}
