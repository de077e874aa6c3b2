package captable

import (
	"testing"

	"github.com/etnz/captable/date"
)

func TestSnapshot_Frozen(t *testing.T) {
	ct := newFixture(t)
	s := snapshot(t, ct)

	must(t, ct.AppendCertificate(Certificate{ID: "CS-3", Security: "common", Shareholder: "Dan", Shares: Q(1_000_000)}))
	if got := s.TotalOutstanding(); !got.Equal(Q(11_600_000)) {
		t.Errorf("TotalOutstanding() = %s after appending to the cap table, want 11600000", got)
	}
	if got := len(s.Holders()); got != 5 {
		t.Errorf("len(Holders()) = %d, want 5", got)
	}
}

func TestSnapshot_ExcludesLaterRecords(t *testing.T) {
	ct := newFixture(t)
	s, err := ct.Snapshot(date.New(2022, 1, 1))
	if err != nil {
		t.Fatalf("Snapshot() unexpected error: %v", err)
	}
	// Fund B invested in 2023.
	if got := s.TotalOutstanding(); !got.Equal(Q(8_700_000)) {
		t.Errorf("TotalOutstanding() = %s, want 8700000", got)
	}
	if got, want := s.Holders(), []string{"Alice", "Bob", "Carol", "Fund A"}; len(got) != len(want) {
		t.Errorf("Holders() = %v, want %v", got, want)
	}

	early, err := ct.Snapshot(date.New(2019, 12, 31))
	if err != nil {
		t.Fatalf("Snapshot() unexpected error: %v", err)
	}
	if got := early.Authorized("plan"); !got.IsZero() {
		t.Errorf("Authorized(plan) = %s before the pool was created, want 0", got)
	}
}

func TestSnapshot_Accessors(t *testing.T) {
	s := snapshot(t, newFixture(t))
	if s.Name() != "Acme" || s.Currency() != "USD" || s.On() != fixtureDay {
		t.Errorf("snapshot = %s in %s on %s, want Acme in USD on %s", s.Name(), s.Currency(), s.On(), fixtureDay)
	}
	if got := s.MaxSeniority(); got != 3 {
		t.Errorf("MaxSeniority() = %d, want 3", got)
	}
	if s.Security("nope") != nil {
		t.Error("Security(nope) is not nil")
	}
	if sec := s.Security("series-a"); sec == nil || sec.Seniority != 2 {
		t.Errorf("Security(series-a) = %v, want seniority 2", sec)
	}
	var ids []string
	for sec := range s.Securities() {
		ids = append(ids, sec.ID)
	}
	if len(ids) != 4 || ids[0] != "common" || ids[3] != "series-b" {
		t.Errorf("Securities() = %v, want the declaration order", ids)
	}
}

func TestSnapshot_CancelledIsNotOutstanding(t *testing.T) {
	ct := newFixture(t)
	must(t, ct.AppendCertificate(Certificate{ID: "CS-3", Security: "common", Shareholder: "Dan", Status: Cancelled, Shares: Q(1_000_000), Cash: USD(100)}))
	s := snapshot(t, ct)
	if got := s.TotalOutstanding(); !got.Equal(Q(11_600_000)) {
		t.Errorf("TotalOutstanding() = %s, want 11600000", got)
	}
	if got := s.TotalPaid(); !got.Equal(USD(6_000_806)) {
		t.Errorf("TotalPaid() = %s, want the cancelled cash included", got)
	}
}
