package renderer

import "github.com/etnz/captable"

// shares prints a share count rounded to the unit.
func shares(q captable.Quantity) string {
	if q.IsZero() {
		return "-"
	}
	return q.Round(0).String()
}

// rata prints a ratio as a percentage, or a dash when zero.
func rata(r captable.Ratio) string {
	if r.IsZero() {
		return "-"
	}
	return r.Percent()
}

func money(m captable.Money) string {
	if m.IsZero() {
		return "-"
	}
	return m.String()
}
