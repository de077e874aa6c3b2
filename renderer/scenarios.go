package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/captable"
)

// ScenariosMarkdown renders a comparison of financing scenarios followed by
// the detailed cap table of each one.
func ScenariosMarkdown(results []captable.ScenarioResult) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Scenarios\n\n")
	fmt.Fprintln(&b, "| Scenario | New Money | Pre-Money | Price | New Investors | Converted | Pool Expansion |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, res := range results {
		p := res.Report.Proforma
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			res.Name,
			p.Financing.NewMoney,
			p.Financing.PreValuation,
			p.Price,
			rata(p.NewInvestorRata),
			rata(p.ConvertRata),
			shares(p.NewPoolShares),
		)
	}

	for _, res := range results {
		fmt.Fprintf(&b, "\n# %s\n\n", res.Name)
		b.WriteString(financingTable(res.Report))
	}
	return b.String()
}
