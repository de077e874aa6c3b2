package captable

import "github.com/etnz/captable/date"

// VestedOn returns the stake vested on day according to the certificate
// vesting schedule.
//
// Unlike Vested, which always counts the full stake, VestedOn prorates
// common stock, options and warrants: the immediate fraction vests at grant,
// nothing more vests before the cliff, then the residual vests linearly by
// month over the term. Vesting stops at VestingStop if set. A single trigger
// or a zero term vests everything.
func (s *Snapshot) VestedOn(c Certificate, day date.Date) Quantity {
	stake := s.Vested(c)
	sec := s.security(c)
	if sec.Type == Preferred || sec.Type == Convertible {
		return stake
	}
	if c.VestingTrigger == SingleTrigger || c.VestingTerm == 0 {
		return stake
	}

	immediate := stake.Scale(c.VestingImmediate)
	residual := stake.Sub(immediate)

	start := c.VestingStart
	if start.IsZero() {
		start = c.Date
	}
	stop := day
	if !c.VestingStop.IsZero() && c.VestingStop.Before(day) {
		stop = c.VestingStop
	}
	months := stop.MonthsSince(start)

	switch {
	case months >= c.VestingTerm:
		return stake
	case months < c.VestingCliff || months <= 0:
		return immediate
	default:
		return immediate.Add(residual.Mul(Q(months)).Div(Q(c.VestingTerm)))
	}
}
