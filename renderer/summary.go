package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/captable"
)

// SummaryMarkdown renders the cap table aggregated by security.
func SummaryMarkdown(r *captable.SummaryReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s on %s\n\n", r.Company, r.Date)
	fmt.Fprintln(&b, "| Security | Type | Seniority | Authorized | Outstanding | Debt | Available | Fully Diluted | % | Paid | Preference |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|---:|---:|")
	for _, s := range r.Securities {
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			s.Name,
			s.Type,
			s.Seniority,
			shares(s.Authorized),
			shares(s.Outstanding),
			money(s.Debt),
			shares(s.Available),
			shares(s.Diluted),
			rata(s.DilutedRata),
			money(s.Paid),
			money(s.Preference),
		)
	}
	fmt.Fprintf(&b, "| **%s** | | | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** |\n",
		r.Total.Name,
		shares(r.Total.Authorized),
		shares(r.Total.Outstanding),
		money(r.Total.Debt),
		shares(r.Total.Available),
		shares(r.Total.Diluted),
		rata(r.Total.DilutedRata),
		money(r.Total.Paid),
		money(r.Total.Preference),
	)

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Convertibles\n\n")
		fmt.Fprintln(w, "| Security | Debt | As Converted |")
		fmt.Fprintln(w, "|:---|---:|---:|")
		for _, s := range r.Securities {
			if s.Type != captable.Convertible {
				continue
			}
			fmt.Fprintf(w, "| %s | %s | %s |\n", s.Name, money(s.Debt), shares(s.Converted))
		}
		return !r.Total.Debt.IsZero()
	})
	return b.String()
}
