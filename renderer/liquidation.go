package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/captable"
)

// LiquidationMarkdown renders the distribution of a purchase price among the
// holders, tier prices first.
func LiquidationMarkdown(r *captable.LiquidationReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Liquidation of %s on %s\n\n", r.Company, r.Date)
	fmt.Fprintf(&b, "Purchase price: %s\n\n", r.PurchasePrice)

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "## Price per Share\n\n")
		fmt.Fprintln(w, "| Seniority | Securities | Price |")
		fmt.Fprintln(w, "|---:|:---|---:|")
		for _, tier := range r.Tiers {
			fmt.Fprintf(w, "| %d | %s | %s |\n", tier.Seniority, strings.Join(tier.Securities, ", "), tier.Price)
		}
		fmt.Fprintln(w)
		return len(r.Tiers) > 0
	})

	fmt.Fprint(&b, "## Proceeds\n\n")
	fmt.Fprintln(&b, "| Holder | Preference | Shares | Proceeds | % |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	for _, row := range r.Rows {
		if row.Liquidated.IsZero() && row.Proceeds.IsZero() {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			row.Name,
			money(row.Preference),
			shares(row.Liquidated),
			money(row.Proceeds),
			rata(row.ProceedsRata),
		)
	}
	fmt.Fprintf(&b, "| **%s** | **%s** | **%s** | **%s** | **%s** |\n",
		r.Total.Name,
		money(r.Total.Preference),
		shares(r.Total.Liquidated),
		money(r.Total.Proceeds),
		rata(r.Total.ProceedsRata),
	)

	return b.String()
}
