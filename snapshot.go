package captable

import (
	"iter"
	"maps"
	"slices"

	"github.com/etnz/captable/date"
)

// Snapshot represents a view of the cap table at a single point in time.
// It is a stateless calculator that computes all values on-the-fly from a
// private copy of the records issued up to its 'on' date, so it is safe for
// concurrent use.
type Snapshot struct {
	name       string
	cur        string
	on         date.Date
	securities map[string]Security
	order      []Security
	additions  []Addition
	certs      []Certificate
}

// Snapshot freezes the cap table on a given day. Certificates and additions
// dated after 'on' are ignored. A zero 'on' means today.
func (t *CapTable) Snapshot(on date.Date) (*Snapshot, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if on.IsZero() {
		on = date.Today()
	}
	s := &Snapshot{
		name:       t.name,
		cur:        t.currency,
		on:         on,
		securities: make(map[string]Security, len(t.securities)),
		order:      slices.Clone(t.securities),
	}
	for _, sec := range t.securities {
		s.securities[sec.ID] = sec
	}
	for _, a := range t.additions {
		if !a.Date.After(on) {
			s.additions = append(s.additions, a)
		}
	}
	for _, c := range t.certs {
		if !c.Date.After(on) {
			s.certs = append(s.certs, c)
		}
	}
	return s, nil
}

// On returns the date of the snapshot.
func (s *Snapshot) On() date.Date { return s.on }

// Name returns the company name.
func (s *Snapshot) Name() string { return s.name }

// Currency returns the currency of all amounts.
func (s *Snapshot) Currency() string { return s.cur }

// Security returns the security declared with this id, or nil if unknown.
func (s *Snapshot) Security(id string) *Security {
	sec, ok := s.securities[id]
	if !ok {
		return nil
	}
	return &sec
}

// Securities returns an iterator over the securities in declaration order.
func (s *Snapshot) Securities() iter.Seq[Security] { return slices.Values(s.order) }

// Certificates returns an iterator over the certificates in issuance order.
func (s *Snapshot) Certificates() iter.Seq[Certificate] { return slices.Values(s.certs) }

// Holders returns the sorted list of holders (investor or shareholder names).
func (s *Snapshot) Holders() []string {
	set := make(map[string]struct{})
	for _, c := range s.certs {
		set[c.Holder()] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// MaxSeniority returns the most senior tier declared, 0 if there is no security.
func (s *Snapshot) MaxSeniority() int {
	var x int
	for _, sec := range s.order {
		x = max(x, sec.Seniority)
	}
	return x
}

// Authorized returns the authorized count of a security on the snapshot's date.
func (s *Snapshot) Authorized(id string) Quantity {
	return authorized(s.additions, id, s.on)
}

// Available returns the unallocated part of an option pool on the snapshot's date.
func (s *Snapshot) Available(id string) Quantity {
	return available(s.additions, s.certs, id, s.on)
}

// --- private calculation helpers ---

// security returns the parent security of c. Snapshot creation guarantees it exists.
func (s *Snapshot) security(c Certificate) Security { return s.securities[c.Security] }

// sumQ folds a certificate metric, skipping certificates it is not applicable to.
func (s *Snapshot) sumQ(certs iter.Seq[Certificate], metric func(Certificate) (Quantity, bool)) Quantity {
	var total Quantity
	for c := range certs {
		if v, ok := metric(c); ok {
			total = total.Add(v)
		}
	}
	return total
}

// sumM folds a monetary certificate metric, skipping certificates it is not applicable to.
func (s *Snapshot) sumM(certs iter.Seq[Certificate], metric func(Certificate) (Money, bool)) Money {
	total := M(0, s.cur)
	for c := range certs {
		if v, ok := metric(c); ok {
			total = total.Add(v)
		}
	}
	return total
}

// ofClass returns an iterator over the certificates whose security class is in classes.
func (s *Snapshot) ofClass(classes ...Class) iter.Seq[Certificate] {
	return func(yield func(Certificate) bool) {
		for _, c := range s.certs {
			if !slices.Contains(classes, s.security(c).Type.Class()) {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

// outstanding returns an iterator over certificates in Outstanding status.
func (s *Snapshot) outstanding() iter.Seq[Certificate] {
	return func(yield func(Certificate) bool) {
		for _, c := range s.certs {
			if c.Status == Outstanding && !yield(c) {
				return
			}
		}
	}
}

// always adapts an always applicable metric to the fold helpers.
func always[T any](f func(Certificate) T) func(Certificate) (T, bool) {
	return func(c Certificate) (T, bool) { return f(c), true }
}

// --- totals ---

// TotalLiquidated is the number of shares taking part in a liquidation.
func (s *Snapshot) TotalLiquidated() Quantity {
	return s.sumQ(s.Certificates(), always(s.Liquidated))
}

// TotalPreference is the cash claimed ahead of common.
func (s *Snapshot) TotalPreference() Money {
	return s.sumM(s.Certificates(), s.Preference)
}

// TotalOutstanding is the number of shares, options and warrants held by
// outstanding certificates. Convertible debt is not a share count.
func (s *Snapshot) TotalOutstanding() Quantity {
	return s.sumQ(s.outstanding(), s.Outstanding)
}

// TotalOutstandingDebt is the convertible debt not yet converted.
func (s *Snapshot) TotalOutstandingDebt() Money {
	return s.sumM(s.outstanding(), s.OutstandingDebt)
}

// TotalPaid is the consideration paid for all certificates.
func (s *Snapshot) TotalPaid() Money {
	return s.sumM(s.Certificates(), always(s.Paid))
}

// TotalConverted is the as-converted common-equivalent count.
func (s *Snapshot) TotalConverted() Quantity {
	return s.sumQ(s.Certificates(), s.Converted)
}

// TotalAvailable is the unallocated part of every option pool.
func (s *Snapshot) TotalAvailable() Quantity {
	var total Quantity
	for _, sec := range s.order {
		if sec.Type == Option {
			total = total.Add(s.Available(sec.ID))
		}
	}
	return total
}

// TotalDiluted is the fully diluted count: every certificate as converted
// plus the options still available in the pools.
func (s *Snapshot) TotalDiluted() Quantity {
	return s.sumQ(s.Certificates(), s.Diluted).Add(s.TotalAvailable())
}

// TotalVested is the count of vested shares, options and warrants.
func (s *Snapshot) TotalVested() Quantity {
	return s.sumQ(s.Certificates(), always(s.Vested))
}

// TotalDiscounted is the purchase power of outstanding convertibles in a
// round priced at pre. A zero pre uses each security's default.
func (s *Snapshot) TotalDiscounted(pre Money) Money {
	return s.sumM(s.outstanding(), func(c Certificate) (Money, bool) { return s.Discounted(c, pre) })
}

// TotalProrata is the part of newShares claimed by holders exercising a
// pro-rata right on an outstanding certificate, computed on a fully diluted
// basis.
func (s *Snapshot) TotalProrata(newShares Quantity) (Quantity, error) {
	var total Quantity
	diluted := s.TotalDiluted()
	for c := range s.outstanding() {
		p, err := s.Prorata(c, newShares, diluted)
		if err != nil {
			return Quantity{}, err
		}
		total = total.Add(p)
	}
	return total, nil
}
