package captable

import (
	"fmt"
	"maps"
	"slices"
)

// Prices maps each seniority tier to the price per share it receives in a
// liquidation.
type Prices map[int]Money

// Price returns the price of a tier, zero if the tier is unknown.
func (p Prices) Price(seniority int) Money { return p[seniority] }

// Seniorities returns the tiers, most senior first.
func (p Prices) Seniorities() []int {
	tiers := slices.Sorted(maps.Keys(p))
	slices.Reverse(tiers)
	return tiers
}

// tranche aggregates the certificates of one seniority tier.
type tranche struct {
	count         int // number of certificates
	shares        Quantity
	preference    Money
	participating bool
	cap           Ratio
}

// waterfallState is one step of the liquidation: the tier about to be paid
// and what is left to distribute. A state is never modified, step returns a
// new one. Tier 0 is terminal.
type waterfallState struct {
	tier           int
	residualCash   Money
	residualShares Quantity
	prices         Prices
}

// with returns a copy of the state with tier priced at price.
func (st waterfallState) with(tier int, price Money) waterfallState {
	st.prices = maps.Clone(st.prices)
	st.prices[tier] = price.exact()
	return st
}

// fill returns a terminal state where the current tier and every junior tier
// are priced at price.
func (st waterfallState) fill(price Money) waterfallState {
	st.prices = maps.Clone(st.prices)
	for x := st.tier; x > 0; x-- {
		st.prices[x] = price.exact()
	}
	st.tier = 0
	return st
}

// next returns the state moved to the next junior tier with updated residuals.
func (st waterfallState) next(cash Money, shares Quantity) waterfallState {
	st.residualCash, st.residualShares = cash, shares
	st.tier--
	return st
}

// step pays the current tier and returns the next state.
func (st waterfallState) step(tr tranche) (waterfallState, error) {
	if tr.count == 0 || (tr.shares.IsZero() && tr.preference.IsZero()) {
		// nothing to pay, the tier is priced once the run is over.
		st.tier--
		return st, nil
	}
	if tr.shares.IsZero() {
		return st, fmt.Errorf("%w: tier %d claims a preference of %s without liquidated shares", ErrDegenerate, st.tier, tr.preference)
	}
	if st.residualShares.IsZero() {
		return st, fmt.Errorf("%w: no residual shares left at tier %d", ErrDegenerate, st.tier)
	}
	residualPrice := st.residualCash.Div(st.residualShares)
	prefPrice := tr.preference.Div(tr.shares)

	// insufficient funds: the tier takes everything left.
	if tr.preference.GreaterThan(st.residualCash) {
		st = st.with(st.tier, st.residualCash.Div(tr.shares))
		st.tier--
		return st.fill(M(0, st.residualCash.Currency())), nil
	}

	if tr.participating {
		if !tr.cap.IsZero() && prefPrice.Scale(tr.cap).LessThan(residualPrice) {
			// capped below common: the tier converts.
			return st.fill(residualPrice), nil
		}
		price := prefPrice.Add(st.residualCash.Sub(tr.preference).Div(st.residualShares))
		if tr.cap.IsZero() {
			// uncapped: the tier keeps participating with the junior tiers.
			return st.with(st.tier, price).next(st.residualCash.Sub(tr.preference), st.residualShares), nil
		}
		return st.with(st.tier, price).next(st.residualCash.Sub(price.Mul(tr.shares)), st.residualShares.Sub(tr.shares)), nil
	}

	if prefPrice.LessThan(residualPrice) {
		// better off converting to common.
		return st.fill(residualPrice), nil
	}
	return st.with(st.tier, prefPrice).next(st.residualCash.Sub(tr.preference), st.residualShares.Sub(tr.shares)), nil
}

// tranches groups the certificates by seniority.
func (s *Snapshot) tranches() map[int]tranche {
	trs := make(map[int]tranche)
	for _, c := range s.certs {
		sec := s.security(c)
		tr := trs[sec.Seniority]
		tr.count++
		tr.shares = tr.shares.Add(s.Liquidated(c))
		if p, ok := s.Preference(c); ok {
			tr.preference = tr.preference.Add(p)
		}
		// the first participating security sets the tier cap.
		if sec.Participating && !tr.participating {
			tr.participating = true
			tr.cap = sec.ParticipationCap
		}
		trs[sec.Seniority] = tr
	}
	return trs
}

// SharePrice runs the liquidation waterfall for a total purchase price and
// returns the price per share of every tier, from 1 to the most senior.
//
// Tiers are paid most senior first. A tier whose preference exceeds the
// remaining cash takes it all and junior tiers get nothing. A tier better off
// converting to common gets the common price, as do all junior tiers.
// Otherwise the tier takes its preference, plus its share of the residual
// if it participates. A tier without certificates gets the price of the
// nearest junior tier.
func (s *Snapshot) SharePrice(purchasePrice Money) (Prices, error) {
	if !purchasePrice.IsPositive() {
		return nil, fmt.Errorf("%w: purchase price must be positive, got %s", ErrInvalidInput, purchasePrice)
	}
	total := s.TotalLiquidated()
	if total.IsZero() {
		return nil, fmt.Errorf("%w: no liquidated shares", ErrDegenerate)
	}

	trs := s.tranches()
	st := waterfallState{
		tier:           s.MaxSeniority(),
		residualCash:   purchasePrice,
		residualShares: total,
		prices:         make(Prices),
	}
	for st.tier > 0 {
		var err error
		if st, err = st.step(trs[st.tier]); err != nil {
			return nil, err
		}
	}

	prices := st.prices
	zero := M(0, purchasePrice.Currency()).exact()
	last := zero
	for x := 1; x <= s.MaxSeniority(); x++ {
		if p, ok := prices[x]; ok {
			last = p
			continue
		}
		prices[x] = last
	}
	return prices, nil
}

// TotalProceeds returns the cash distributed to all certificates.
func (s *Snapshot) TotalProceeds(prices Prices) Money {
	return s.sumM(s.Certificates(), always(func(c Certificate) Money { return s.Proceeds(c, prices) }))
}
