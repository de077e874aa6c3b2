package captable

import (
	"math"
	"testing"

	"github.com/etnz/captable/date"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

// approx reports whether a and b are equal within a relative tolerance.
func approx(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))+1e-9
}

var fixtureDay = date.New(2024, 1, 1)

// newFixture returns a typical seed stage cap table:
//
//	common    seniority 1: Alice 4M, Bob 3M
//	plan      seniority 1: 2.9M authorized, Carol granted 100k
//	series-a  seniority 2: Fund A 1.6M @0.625 with pro-rata right
//	series-b  seniority 3: Fund B 2.9M @1.72414
func newFixture(t *testing.T) *CapTable {
	t.Helper()
	ct := NewCapTable("Acme", "USD")
	must(t, ct.AppendSecurity(Security{ID: "common", Name: "Common Stock", Type: Common, Seniority: 1, PricePerShare: USD(0.0001)}))
	must(t, ct.AppendSecurity(Security{ID: "plan", Name: "Stock Option Plan", Type: Option, Seniority: 1, PricePerShare: USD(0.1)}))
	must(t, ct.AppendSecurity(Security{ID: "series-a", Name: "Series A Preferred", Type: Preferred, Seniority: 2, PricePerShare: USD(0.625)}))
	must(t, ct.AppendSecurity(Security{ID: "series-b", Name: "Series B Preferred", Type: Preferred, Seniority: 3, PricePerShare: USD(1.72414)}))
	must(t, ct.AppendAddition(Addition{Date: date.New(2020, 1, 1), Security: "plan", Authorized: Q(2_900_000)}))

	must(t, ct.AppendCertificate(Certificate{ID: "CS-1", Security: "common", Shareholder: "Alice", Date: date.New(2020, 1, 1), Shares: Q(4_000_000), Cash: USD(400)}))
	must(t, ct.AppendCertificate(Certificate{ID: "CS-2", Security: "common", Shareholder: "Bob", Date: date.New(2020, 1, 1), Shares: Q(3_000_000), Cash: USD(300)}))
	must(t, ct.AppendCertificate(Certificate{ID: "OP-1", Security: "plan", Shareholder: "Carol", Date: date.New(2021, 1, 1), Granted: Q(100_000)}))
	must(t, ct.AppendCertificate(Certificate{ID: "PA-1", Security: "series-a", Shareholder: "Fund A", Date: date.New(2021, 6, 1), Shares: Q(1_600_000), Cash: USD(1_000_000), Prorata: true}))
	must(t, ct.AppendCertificate(Certificate{ID: "PB-1", Security: "series-b", Shareholder: "Fund B", Date: date.New(2023, 6, 1), Shares: Q(2_900_000), Cash: USD(5_000_006)}))
	return ct
}

// newCommonOnly returns a cap table with a single common holder of shares.
func newCommonOnly(t *testing.T, shares int) *CapTable {
	t.Helper()
	ct := NewCapTable("Acme", "USD")
	must(t, ct.AppendSecurity(Security{ID: "common", Type: Common, Seniority: 1}))
	must(t, ct.AppendCertificate(Certificate{ID: "CS-1", Security: "common", Shareholder: "Alice", Shares: Q(shares)}))
	return ct
}

// snapshot freezes ct on fixtureDay.
func snapshot(t *testing.T, ct *CapTable) *Snapshot {
	t.Helper()
	s, err := ct.Snapshot(fixtureDay)
	if err != nil {
		t.Fatalf("Snapshot() unexpected error: %v", err)
	}
	return s
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// cert returns the certificate with this id.
func cert(t *testing.T, s *Snapshot, id string) Certificate {
	t.Helper()
	for c := range s.Certificates() {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("certificate %q not found", id)
	return Certificate{}
}
