package captable

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/etnz/captable/date"
)

// CapTable is the record of a company capitalization: its securities, the
// additions to their authorized pools and the certificates issued under them.
//
// Records are kept in insertion order. A CapTable is mutable; computations
// run on a Snapshot.
type CapTable struct {
	name       string
	currency   string
	securities []Security
	index      map[string]int // index securities by ID
	additions  []Addition
	certs      []Certificate
	certIDs    map[string]struct{}
}

// NewCapTable creates an empty cap table for a company whose amounts are in cur.
func NewCapTable(name, cur string) *CapTable {
	return &CapTable{
		name:     name,
		currency: cur,
		index:    make(map[string]int),
		certIDs:  make(map[string]struct{}),
	}
}

// Name returns the company name.
func (t *CapTable) Name() string { return t.name }

// Currency returns the currency all amounts are expressed in.
func (t *CapTable) Currency() string { return t.currency }

// Security returns the security declared with this id, or nil if unknown.
func (t *CapTable) Security(id string) *Security {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	sec := t.securities[i]
	return &sec
}

// AppendSecurity validates and appends a security.
func (t *CapTable) AppendSecurity(s Security) error {
	s, err := s.Validate(t.currency)
	if err != nil {
		return err
	}
	if _, exists := t.index[s.ID]; exists {
		return fmt.Errorf("%w: security %q is already declared", ErrInvalidInput, s.ID)
	}
	t.index[s.ID] = len(t.securities)
	t.securities = append(t.securities, s)
	return nil
}

// AppendAddition validates and appends an addition to a security's pool.
func (t *CapTable) AppendAddition(a Addition) error {
	if err := a.Validate(t); err != nil {
		return err
	}
	t.additions = append(t.additions, a)
	return nil
}

// AppendCertificate validates and appends a certificate.
func (t *CapTable) AppendCertificate(c Certificate) error {
	c, err := c.Validate(t)
	if err != nil {
		return err
	}
	if _, exists := t.certIDs[c.ID]; exists {
		return fmt.Errorf("%w: certificate %q is already issued", ErrInvalidInput, c.ID)
	}
	t.certIDs[c.ID] = struct{}{}
	t.certs = append(t.certs, c)
	return nil
}

// Validate checks the references between securities. Records are already
// validated when appended; conversion securities may be declared in any
// order so they are checked here.
func (t *CapTable) Validate() error {
	var errs []error
	for _, s := range t.securities {
		if s.ConversionSecurity == "" {
			continue
		}
		succ := t.Security(s.ConversionSecurity)
		switch {
		case succ == nil:
			errs = append(errs, fmt.Errorf("%w: security %q converts into unknown security %q", ErrInvalidInput, s.ID, s.ConversionSecurity))
		case s.Type == Convertible && succ.Type == Convertible:
			errs = append(errs, fmt.Errorf("%w: convertible %q cannot convert into another convertible %q", ErrInvalidInput, s.ID, succ.ID))
		}
	}
	return errors.Join(errs...)
}

// Securities returns an iterator over the securities in declaration order.
func (t *CapTable) Securities() iter.Seq[Security] { return slices.Values(t.securities) }

// Additions returns an iterator over the pool additions.
func (t *CapTable) Additions() iter.Seq[Addition] { return slices.Values(t.additions) }

// Certificates returns an iterator over the certificates in issuance order.
func (t *CapTable) Certificates() iter.Seq[Certificate] { return slices.Values(t.certs) }

// Authorized returns the total authorized count of a security, all additions included.
func (t *CapTable) Authorized(id string) Quantity {
	return authorized(t.additions, id, date.Date{})
}

// Available returns the unallocated part of an option security's pool.
func (t *CapTable) Available(id string) Quantity {
	return available(t.additions, t.certs, id, date.Date{})
}

// authorized sums additions to security id up to on. A zero on means no limit.
func authorized(additions []Addition, id string, on date.Date) Quantity {
	var total Quantity
	for _, a := range additions {
		if a.Security != id || (!on.IsZero() && a.Date.After(on)) {
			continue
		}
		total = total.Add(a.Authorized)
	}
	return total
}

// available is authorized − granted + cancelled. Exercised options stay
// allocated.
func available(additions []Addition, certs []Certificate, id string, on date.Date) Quantity {
	total := authorized(additions, id, on)
	for _, c := range certs {
		if c.Security != id || (!on.IsZero() && c.Date.After(on)) {
			continue
		}
		total = total.Sub(c.Granted).Add(c.Cancelled)
	}
	return total
}
