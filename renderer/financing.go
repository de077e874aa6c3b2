package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/captable"
)

// ProformaMarkdown renders the round terms and the solved share counts.
func ProformaMarkdown(p *captable.ProformaResult) string {
	var b strings.Builder

	fmt.Fprint(&b, "## Round\n\n")
	fmt.Fprintln(&b, "| | |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| New Money | %s |\n", p.Financing.NewMoney)
	fmt.Fprintf(&b, "| Pre-Money Valuation | %s |\n", p.Financing.PreValuation)
	fmt.Fprintf(&b, "| Post-Money Valuation | %s |\n", p.PostValuation)
	fmt.Fprintf(&b, "| Price per Share | %s |\n", p.Price)
	if !p.Financing.PoolRata.IsZero() {
		fmt.Fprintf(&b, "| Target Pool | %s |\n", p.Financing.PoolRata.Percent())
	}
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## New Shares\n\n")
	fmt.Fprintln(&b, "| | Shares | Rata |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	fmt.Fprintf(&b, "| Pre-Money Shares | %s | |\n", shares(p.PreShares))
	fmt.Fprintf(&b, "| Options Available | %s | |\n", shares(p.Available))
	fmt.Fprintf(&b, "| New Investors | %s | %s |\n", shares(p.NewInvestorShares), rata(p.NewInvestorRata))
	fmt.Fprintf(&b, "| Pro Rata | %s | |\n", shares(p.NewProrataShares))
	fmt.Fprintf(&b, "| Converted | %s | %s |\n", shares(p.NewConvertedShares), rata(p.ConvertRata))
	fmt.Fprintf(&b, "| Pool Expansion | %s | |\n", shares(p.NewPoolShares))
	fmt.Fprintf(&b, "| **Post-Money Shares** | **%s** | |\n", shares(p.PostShares()))

	return b.String()
}

// FinancingMarkdown renders the cap table before and after a financing.
func FinancingMarkdown(r *captable.FinancingReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Financing of %s on %s\n\n", r.Company, r.Date)
	b.WriteString(ProformaMarkdown(r.Proforma))
	fmt.Fprintln(&b)
	b.WriteString(financingTable(r))
	return b.String()
}

func financingTable(r *captable.FinancingReport) string {
	var b strings.Builder
	fmt.Fprint(&b, "## Cap Table\n\n")
	fmt.Fprintln(&b, "| Holder | Pre Shares | Pre Cash | Pre % | New Shares | New Cash | Post Shares | Post Cash | Post % |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|---:|")
	row := func(format string, x captable.FinancingRow) {
		fmt.Fprintf(&b, format,
			x.Name,
			shares(x.PreShares), money(x.PreCash), rata(x.PreRata),
			shares(x.NewShares), money(x.NewCash),
			shares(x.PostShares), money(x.PostCash), rata(x.PostRata),
		)
	}
	for _, x := range r.Rows {
		row("| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n", x)
	}
	row("| **%s** | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** |\n", r.Total)
	return b.String()
}
