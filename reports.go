package captable

import (
	"fmt"
	"slices"

	"github.com/etnz/captable/date"
)

// FinancingRow is one line of a financing report.
type FinancingRow struct {
	Name       string   `json:"name"`
	PreShares  Quantity `json:"pre_shares"`
	PreCash    Money    `json:"pre_cash"`
	PreRata    Ratio    `json:"pre_rata"`
	NewShares  Quantity `json:"new_shares"`
	NewCash    Money    `json:"new_cash"`
	PostShares Quantity `json:"post_shares"`
	PostCash   Money    `json:"post_cash"`
	PostRata   Ratio    `json:"post_rata"`
}

// FinancingReport shows the cap table before and after a financing, holder
// by holder.
type FinancingReport struct {
	Date     date.Date       `json:"date"`
	Company  string          `json:"company"`
	Proforma *ProformaResult `json:"proforma"`
	Rows     []FinancingRow  `json:"rows"`
	Total    FinancingRow    `json:"total"`
}

// Row labels of the financing report.
const (
	NewInvestorRow      = "New Investor"
	OptionsAvailableRow = "Options Available"
	TotalRow            = "Total"
)

// NewFinancingReport computes the proforma of f and spreads it over the
// holders: the new investor first, then existing holders by name, then the
// option pool.
func (s *Snapshot) NewFinancingReport(f Financing) (*FinancingReport, error) {
	p, err := s.Proforma(f)
	if err != nil {
		return nil, err
	}
	conv, err := NewConversion(f.PreValuation, p.Price)
	if err != nil {
		return nil, err
	}
	diluted := s.TotalDiluted()
	zero := M(0, s.cur)

	total := FinancingRow{Name: TotalRow}
	total.PreShares = p.PreShares.Add(p.Available)
	total.PreCash = s.TotalPaid()
	total.NewShares = p.NewInvestorShares.Add(p.NewProrataShares).Add(p.NewConvertedShares).Add(p.NewPoolShares)
	total.NewCash = f.NewMoney
	total.PostShares = total.PreShares.Add(total.NewShares)
	total.PostCash = total.PreCash.Add(total.NewCash)
	if total.PreShares.IsZero() || total.PostShares.IsZero() {
		return nil, fmt.Errorf("%w: no shares before or after the financing", ErrDegenerate)
	}

	r := &FinancingReport{Date: s.on, Company: s.name, Proforma: p}
	r.Rows = append(r.Rows, FinancingRow{
		Name:       NewInvestorRow,
		PreCash:    zero,
		NewShares:  p.NewInvestorShares,
		NewCash:    p.NewInvestorCash,
		PostShares: p.NewInvestorShares,
		PostCash:   p.NewInvestorCash,
		PostRata:   p.NewInvestorShares.Rata(total.PostShares),
	})

	for _, holder := range s.Holders() {
		row := FinancingRow{Name: holder, PreCash: zero, NewCash: zero}
		var prorata, converted Quantity
		for _, c := range s.certs {
			if c.Holder() != holder {
				continue
			}
			row.PreCash = row.PreCash.Add(s.Paid(c))
			if c.Status != Outstanding {
				continue
			}
			if q, ok := s.Outstanding(c); ok {
				row.PreShares = row.PreShares.Add(q)
			}
			q, err := s.Prorata(c, p.NewMoneyShares, diluted)
			if err != nil {
				return nil, err
			}
			prorata = prorata.Add(q)
			if q, ok := s.ExchangedAt(c, conv); ok {
				converted = converted.Add(q)
			}
		}
		row.PreRata = row.PreShares.Rata(total.PreShares)
		row.NewShares = prorata.Add(converted)
		row.NewCash = p.Price.Mul(prorata).Round(2)
		row.PostShares = row.PreShares.Add(row.NewShares)
		row.PostCash = row.PreCash.Add(row.NewCash)
		row.PostRata = row.PostShares.Rata(total.PostShares)
		r.Rows = append(r.Rows, row)
	}

	pool := FinancingRow{Name: OptionsAvailableRow, PreCash: zero, NewCash: zero}
	pool.PreShares = p.Available
	pool.PreRata = p.Available.Rata(total.PreShares)
	pool.NewShares = p.NewPoolShares
	pool.PostShares = p.Available.Add(p.NewPoolShares)
	pool.PostRata = pool.PostShares.Rata(total.PostShares)
	r.Rows = append(r.Rows, pool)

	for _, row := range r.Rows {
		total.PreRata = total.PreRata.Add(row.PreRata)
		total.PostRata = total.PostRata.Add(row.PostRata)
	}
	r.Total = total
	return r, nil
}

// TierPrice is the liquidation price of one seniority tier.
type TierPrice struct {
	Seniority  int      `json:"seniority"`
	Securities []string `json:"securities"`
	Price      Money    `json:"price"`
}

// LiquidationRow is one holder's share of a liquidation.
type LiquidationRow struct {
	Name         string   `json:"name"`
	Preference   Money    `json:"preference"`
	Liquidated   Quantity `json:"liquidated"`
	Proceeds     Money    `json:"proceeds"`
	ProceedsRata Ratio    `json:"proceeds_rata"`
}

// LiquidationReport distributes a purchase price among the holders.
type LiquidationReport struct {
	Date          date.Date        `json:"date"`
	Company       string           `json:"company"`
	PurchasePrice Money            `json:"purchase_price"`
	Tiers         []TierPrice      `json:"tiers"`
	Rows          []LiquidationRow `json:"rows"`
	Total         LiquidationRow   `json:"total"`
}

// NewLiquidationReport runs the waterfall once and spreads the proceeds over
// the holders, ordered by name.
func (s *Snapshot) NewLiquidationReport(purchasePrice Money) (*LiquidationReport, error) {
	prices, err := s.SharePrice(purchasePrice)
	if err != nil {
		return nil, err
	}
	r := &LiquidationReport{Date: s.on, Company: s.name, PurchasePrice: purchasePrice}
	for _, x := range prices.Seniorities() {
		tier := TierPrice{Seniority: x, Price: prices.Price(x)}
		for sec := range s.Securities() {
			if sec.Seniority == x {
				tier.Securities = append(tier.Securities, sec.Name)
			}
		}
		r.Tiers = append(r.Tiers, tier)
	}

	zero := M(0, s.cur)
	total := LiquidationRow{Name: TotalRow, Preference: zero, Proceeds: zero}
	for _, holder := range s.Holders() {
		row := LiquidationRow{Name: holder, Preference: zero, Proceeds: zero}
		for _, c := range s.certs {
			if c.Holder() != holder {
				continue
			}
			if p, ok := s.Preference(c); ok {
				row.Preference = row.Preference.Add(p)
			}
			row.Liquidated = row.Liquidated.Add(s.Liquidated(c))
			row.Proceeds = row.Proceeds.Add(s.Proceeds(c, prices))
		}
		total.Preference = total.Preference.Add(row.Preference)
		total.Liquidated = total.Liquidated.Add(row.Liquidated)
		total.Proceeds = total.Proceeds.Add(row.Proceeds)
		r.Rows = append(r.Rows, row)
	}
	if !total.Proceeds.IsZero() {
		for i := range r.Rows {
			r.Rows[i].ProceedsRata = r.Rows[i].Proceeds.Rata(total.Proceeds)
		}
		total.ProceedsRata = One
	}
	r.Total = total
	return r, nil
}

// SecuritySummary is one security's line of the summary report.
type SecuritySummary struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        SecurityType `json:"type"`
	Seniority   int          `json:"seniority"`
	Authorized  Quantity     `json:"authorized"`
	Outstanding Quantity     `json:"outstanding"`
	Debt        Money        `json:"debt"`
	Converted   Quantity     `json:"converted"`
	Diluted     Quantity     `json:"diluted"`
	Available   Quantity     `json:"available"`
	Paid        Money        `json:"paid"`
	Preference  Money        `json:"preference"`
	DilutedRata Ratio        `json:"diluted_rata"`
}

// SummaryReport is the at-a-glance cap table on a given date.
type SummaryReport struct {
	Date       date.Date         `json:"date"`
	Company    string            `json:"company"`
	Securities []SecuritySummary `json:"securities"`
	Total      SecuritySummary   `json:"total"`
}

// NewSummaryReport aggregates the certificates by security, most senior first.
func (s *Snapshot) NewSummaryReport() *SummaryReport {
	zero := M(0, s.cur)
	r := &SummaryReport{Date: s.on, Company: s.name}
	diluted := s.TotalDiluted()
	total := SecuritySummary{Name: TotalRow, Debt: zero, Paid: zero, Preference: zero}

	for _, sec := range s.order {
		line := SecuritySummary{
			ID:         sec.ID,
			Name:       sec.Name,
			Type:       sec.Type,
			Seniority:  sec.Seniority,
			Authorized: s.Authorized(sec.ID),
			Debt:       zero,
			Paid:       zero,
			Preference: zero,
		}
		certs := func(yield func(Certificate) bool) {
			for _, c := range s.certs {
				if c.Security == sec.ID && !yield(c) {
					return
				}
			}
		}
		for c := range certs {
			if c.Status == Outstanding {
				if q, ok := s.Outstanding(c); ok {
					line.Outstanding = line.Outstanding.Add(q)
				}
				if d, ok := s.OutstandingDebt(c); ok {
					line.Debt = line.Debt.Add(d)
				}
			}
			line.Paid = line.Paid.Add(s.Paid(c))
		}
		line.Converted = s.sumQ(certs, s.Converted)
		line.Diluted = s.sumQ(certs, s.Diluted)
		line.Preference = s.sumM(certs, s.Preference)
		if sec.Type == Option {
			line.Available = s.Available(sec.ID)
			line.Diluted = line.Diluted.Add(line.Available)
		}
		if !diluted.IsZero() {
			line.DilutedRata = line.Diluted.Rata(diluted)
		}

		total.Authorized = total.Authorized.Add(line.Authorized)
		total.Outstanding = total.Outstanding.Add(line.Outstanding)
		total.Debt = total.Debt.Add(line.Debt)
		total.Converted = total.Converted.Add(line.Converted)
		total.Diluted = total.Diluted.Add(line.Diluted)
		total.Available = total.Available.Add(line.Available)
		total.Paid = total.Paid.Add(line.Paid)
		total.Preference = total.Preference.Add(line.Preference)
		total.DilutedRata = total.DilutedRata.Add(line.DilutedRata)
		r.Securities = append(r.Securities, line)
	}
	slices.SortStableFunc(r.Securities, func(a, b SecuritySummary) int { return b.Seniority - a.Seniority })
	r.Total = total
	return r
}
