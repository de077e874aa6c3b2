package captable

import (
	"errors"
	"testing"

	"github.com/etnz/captable/date"
)

func TestCapTable_AppendSecurity(t *testing.T) {
	testCases := []struct {
		name    string
		sec     Security
		wantErr error
	}{
		{"valid common", Security{ID: "c2", Type: Common, Seniority: 1}, nil},
		{"no seniority", Security{ID: "c2", Type: Common}, ErrInvalidInput},
		{"no id", Security{Type: Common, Seniority: 1}, ErrInvalidInput},
		{"duplicate", Security{ID: "common", Type: Common, Seniority: 1}, ErrInvalidInput},
		{"convertible without price", Security{ID: "n", Type: Convertible, Seniority: 2}, ErrInvalidInput},
		{"full discount", Security{ID: "n", Type: Convertible, Seniority: 2, PricePerShare: USD(1), DiscountRate: R(1)}, ErrInvalidInput},
		{"foreign currency", Security{ID: "p", Type: Preferred, Seniority: 2, PricePerShare: M(1, "EUR")}, ErrInvalidInput},
		{"negative rate", Security{ID: "n", Type: Convertible, Seniority: 2, PricePerShare: USD(1), InterestRate: R(-0.1)}, ErrInvalidInput},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := newFixture(t).AppendSecurity(tc.sec)
			if tc.wantErr == nil && err != nil {
				t.Errorf("AppendSecurity() unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("AppendSecurity() error = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestCapTable_QuickFixes(t *testing.T) {
	ct := NewCapTable("Acme", "USD")
	must(t, ct.AppendSecurity(Security{ID: "pref", Type: Preferred, Seniority: 2, PricePerShare: NO(1)}))
	sec := ct.Security("pref")
	if sec == nil {
		t.Fatal("Security() = nil, want the declared security")
	}
	if sec.PricePerShare.Currency() != "USD" {
		t.Errorf("PricePerShare currency = %q, want USD", sec.PricePerShare.Currency())
	}
	if !sec.ConversionRatio.Equal(One) || !sec.LiquidationPreference.Equal(One) {
		t.Errorf("preferred terms = %s, %s, want 1, 1", sec.ConversionRatio, sec.LiquidationPreference)
	}
}

func TestCapTable_AppendCertificate(t *testing.T) {
	testCases := []struct {
		name string
		cert Certificate
		ok   bool
	}{
		{"valid", Certificate{ID: "X", Security: "common", Shareholder: "Zoe", Shares: Q(10)}, true},
		{"investor only", Certificate{ID: "X", Security: "common", Investor: "Fund Z", Shares: Q(10)}, true},
		{"unknown security", Certificate{ID: "X", Security: "nope", Shareholder: "Zoe"}, false},
		{"no holder", Certificate{ID: "X", Security: "common", Shares: Q(10)}, false},
		{"duplicate", Certificate{ID: "CS-1", Security: "common", Shareholder: "Zoe"}, false},
		{"returns too much", Certificate{ID: "X", Security: "common", Shareholder: "Zoe", Shares: Q(10), Returned: Q(11)}, false},
		{"over exercised", Certificate{ID: "X", Security: "plan", Shareholder: "Zoe", Granted: Q(10), Exercised: Q(6), Cancelled: Q(5)}, false},
		{"immediate above 1", Certificate{ID: "X", Security: "plan", Shareholder: "Zoe", Granted: Q(10), VestingImmediate: R(1.5)}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := newFixture(t).AppendCertificate(tc.cert)
			if tc.ok && err != nil {
				t.Errorf("AppendCertificate() unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("AppendCertificate() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCapTable_Validate(t *testing.T) {
	ct := newFixture(t)
	must(t, ct.AppendSecurity(Security{ID: "note", Type: Convertible, Seniority: 2, PricePerShare: USD(1), ConversionSecurity: "series-z"}))
	if err := ct.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Validate() error = %v, want ErrInvalidInput for an unknown conversion security", err)
	}
	if _, err := ct.Snapshot(fixtureDay); err == nil {
		t.Error("Snapshot() of an invalid cap table should fail")
	}
}

func TestCapTable_Available(t *testing.T) {
	ct := newFixture(t)
	must(t, ct.AppendAddition(Addition{Date: date.New(2025, 1, 1), Security: "plan", Authorized: Q(1_000_000)}))
	must(t, ct.AppendCertificate(Certificate{ID: "OP-2", Security: "plan", Shareholder: "Dan", Date: date.New(2022, 1, 1), Granted: Q(50_000), Exercised: Q(10_000), Cancelled: Q(20_000)}))

	if got, want := ct.Authorized("plan"), Q(3_900_000); !got.Equal(want) {
		t.Errorf("Authorized() = %s, want %s", got, want)
	}
	// authorized − granted + cancelled; exercised options stay allocated.
	if got, want := ct.Available("plan"), Q(3_770_000); !got.Equal(want) {
		t.Errorf("Available() = %s, want %s", got, want)
	}

	s := snapshot(t, ct) // the 2025 addition is not there yet.
	if got, want := s.Available("plan"), Q(2_770_000); !got.Equal(want) {
		t.Errorf("Snapshot.Available() = %s, want %s", got, want)
	}
	if got, want := s.TotalAvailable(), Q(2_770_000); !got.Equal(want) {
		t.Errorf("TotalAvailable() = %s, want %s", got, want)
	}

	if err := ct.AppendAddition(Addition{Security: "nope", Authorized: Q(1)}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("AppendAddition() error = %v, want ErrInvalidInput", err)
	}
}

func TestSnapshot_Totals(t *testing.T) {
	s := snapshot(t, newFixture(t))
	checks := []struct {
		name      string
		got, want float64
	}{
		{"TotalLiquidated", s.TotalLiquidated().AsFloat(), 11_600_000},
		{"TotalOutstanding", s.TotalOutstanding().AsFloat(), 11_600_000},
		{"TotalConverted", s.TotalConverted().AsFloat(), 11_600_000},
		{"TotalDiluted", s.TotalDiluted().AsFloat(), 14_400_000},
		{"TotalAvailable", s.TotalAvailable().AsFloat(), 2_800_000},
		{"TotalPreference", s.TotalPreference().AsFloat(), 6_000_006},
		{"TotalPaid", s.TotalPaid().AsFloat(), 6_000_706},
	}
	for _, c := range checks {
		if !approx(c.got, c.want) {
			t.Errorf("%s() = %v, want %v", c.name, c.got, c.want)
		}
	}
	if got, want := s.Holders(), []string{"Alice", "Bob", "Carol", "Fund A", "Fund B"}; len(got) != len(want) || got[0] != want[0] || got[4] != want[4] {
		t.Errorf("Holders() = %v, want %v", got, want)
	}
}
