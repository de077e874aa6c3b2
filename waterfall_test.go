package captable

import (
	"errors"
	"testing"

	"github.com/etnz/captable/date"
)

// totalProceeds sums the proceeds of all certificates as a float.
func totalProceeds(s *Snapshot, prices Prices) float64 {
	return s.TotalProceeds(prices).AsFloat()
}

func TestSnapshot_SharePrice(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(t *testing.T, ct *CapTable) *CapTable
		price  Money
		want   map[int]float64
	}{
		{
			name:  "everybody converts",
			price: USD(116_000_000),
			want:  map[int]float64{3: 10, 2: 10, 1: 10},
		},
		{
			name:  "straight preferences",
			price: USD(8_000_000),
			want:  map[int]float64{3: 1.72414, 2: 0.625, 1: 1_999_994.0 / 7_100_000},
		},
		{
			name:  "insufficient funds",
			price: USD(3_000_000),
			want:  map[int]float64{3: 3_000_000.0 / 2_900_000, 2: 0, 1: 0},
		},
		{
			name: "participating uncapped",
			modify: func(t *testing.T, _ *CapTable) *CapTable {
				return withTerms(t, "series-a", func(s *Security) { s.Participating = true })
			},
			price: USD(8_000_000),
			want: map[int]float64{
				3: 1.72414,
				2: 0.625 + 1_999_994.0/8_700_000,
				1: 1_999_994.0 / 8_700_000,
			},
		},
		{
			name: "participating capped below common",
			modify: func(t *testing.T, _ *CapTable) *CapTable {
				return withTerms(t, "series-b", func(s *Security) { s.Participating, s.ParticipationCap = true, R(2) })
			},
			price: USD(116_000_000),
			want:  map[int]float64{3: 10, 2: 10, 1: 10},
		},
		{
			name: "participating within the cap",
			modify: func(t *testing.T, _ *CapTable) *CapTable {
				return withTerms(t, "series-b", func(s *Security) { s.Participating, s.ParticipationCap = true, R(2) })
			},
			price: USD(20_000_000),
			want: map[int]float64{
				3: 1.72414 + 14_999_994.0/11_600_000,
				2: 11_249_995.5 / 8_700_000,
				1: 11_249_995.5 / 8_700_000,
			},
		},
		{
			name: "empty senior tier",
			modify: func(t *testing.T, ct *CapTable) *CapTable {
				must(t, ct.AppendSecurity(Security{ID: "series-c", Type: Preferred, Seniority: 4, PricePerShare: USD(3)}))
				return ct
			},
			price: USD(8_000_000),
			want:  map[int]float64{4: 1.72414, 3: 1.72414, 2: 0.625, 1: 1_999_994.0 / 7_100_000},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ct := newFixture(t)
			if tc.modify != nil {
				ct = tc.modify(t, ct)
			}
			s := snapshot(t, ct)
			prices, err := s.SharePrice(tc.price)
			if err != nil {
				t.Fatalf("SharePrice() unexpected error: %v", err)
			}
			if len(prices) != len(tc.want) {
				t.Errorf("SharePrice() returned %d tiers, want %d", len(prices), len(tc.want))
			}
			for tier, want := range tc.want {
				if got := prices.Price(tier).AsFloat(); !approx(got, want) {
					t.Errorf("SharePrice()[%d] = %v, want %v", tier, got, want)
				}
			}
			if got, want := totalProceeds(s, prices), tc.price.AsFloat(); !approx(got, want) {
				t.Errorf("TotalProceeds() = %v, want the purchase price %v", got, want)
			}
		})
	}
}

// withTerms returns the fixture where security id is modified.
func withTerms(t *testing.T, id string, modify func(s *Security)) *CapTable {
	t.Helper()
	fixture := newFixture(t)
	ct := NewCapTable(fixture.Name(), fixture.Currency())
	for s := range fixture.Securities() {
		if s.ID == id {
			modify(&s)
		}
		must(t, ct.AppendSecurity(s))
	}
	for a := range fixture.Additions() {
		must(t, ct.AppendAddition(a))
	}
	for c := range fixture.Certificates() {
		must(t, ct.AppendCertificate(c))
	}
	return ct
}

func TestSnapshot_SharePriceMonotone(t *testing.T) {
	s := snapshot(t, newFixture(t))
	for _, p := range []float64{1, 1_000_000, 5_000_006, 6_000_000, 8_000_000, 12_000_000, 50_000_000, 1e9} {
		prices, err := s.SharePrice(USD(p))
		if err != nil {
			t.Fatalf("SharePrice(%v) unexpected error: %v", p, err)
		}
		tiers := prices.Seniorities()
		for i := 1; i < len(tiers); i++ {
			senior, junior := prices.Price(tiers[i-1]), prices.Price(tiers[i])
			if senior.LessThan(junior) {
				t.Errorf("SharePrice(%v): tier %d price %s is below tier %d price %s", p, tiers[i-1], senior, tiers[i], junior)
			}
		}
		if got := totalProceeds(s, prices); !approx(got, p) {
			t.Errorf("SharePrice(%v): proceeds = %v, want %v", p, got, p)
		}
	}
}

func TestSnapshot_SharePriceInsufficientFunds(t *testing.T) {
	s := snapshot(t, newFixture(t))
	prices, err := s.SharePrice(USD(1_000))
	if err != nil {
		t.Fatalf("SharePrice() unexpected error: %v", err)
	}
	if got := prices.Price(3).AsFloat(); !approx(got, 1_000.0/2_900_000) {
		t.Errorf("SharePrice()[3] = %v, want %v", got, 1_000.0/2_900_000)
	}
	for _, tier := range []int{1, 2} {
		if !prices.Price(tier).IsZero() {
			t.Errorf("SharePrice()[%d] = %s, want 0", tier, prices.Price(tier))
		}
	}
}

func TestSnapshot_SharePriceErrors(t *testing.T) {
	empty := NewCapTable("Acme", "USD")
	must(t, empty.AppendSecurity(Security{ID: "common", Type: Common, Seniority: 1}))

	testCases := []struct {
		name  string
		table *CapTable
		price Money
		want  error
	}{
		{"zero price", newFixture(t), USD(0), ErrInvalidInput},
		{"negative price", newFixture(t), USD(-1), ErrInvalidInput},
		{"no certificate", empty, USD(1_000), ErrDegenerate},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := snapshot(t, tc.table).SharePrice(tc.price)
			if !errors.Is(err, tc.want) {
				t.Errorf("SharePrice() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestWaterfallState_Step(t *testing.T) {
	start := waterfallState{tier: 2, residualCash: USD(100), residualShares: Q(100), prices: make(Prices)}

	t.Run("straight preference", func(t *testing.T) {
		next, err := start.step(tranche{count: 1, shares: Q(10), preference: USD(50)})
		if err != nil {
			t.Fatalf("step() unexpected error: %v", err)
		}
		if next.tier != 1 || !next.residualCash.Equal(USD(50)) || !next.residualShares.Equal(Q(90)) {
			t.Errorf("step() = tier %d cash %s shares %s, want tier 1 cash 50 shares 90", next.tier, next.residualCash, next.residualShares)
		}
		if got := next.prices.Price(2); !got.Equal(USD(5).exact()) {
			t.Errorf("step() price = %s, want 5", got)
		}
		if len(start.prices) != 0 {
			t.Error("step() modified the previous state")
		}
	})

	t.Run("converts", func(t *testing.T) {
		next, err := start.step(tranche{count: 1, shares: Q(10), preference: USD(5)})
		if err != nil {
			t.Fatalf("step() unexpected error: %v", err)
		}
		if next.tier != 0 || len(next.prices) != 2 {
			t.Errorf("step() = tier %d with %d prices, want a terminal state with 2 prices", next.tier, len(next.prices))
		}
	})

	t.Run("empty tier", func(t *testing.T) {
		next, err := start.step(tranche{})
		if err != nil || next.tier != 1 || len(next.prices) != 0 {
			t.Errorf("step() = %+v, %v, want the tier skipped", next, err)
		}
	})

	t.Run("preference without shares", func(t *testing.T) {
		if _, err := start.step(tranche{count: 1, preference: USD(5)}); !errors.Is(err, ErrDegenerate) {
			t.Errorf("step() error = %v, want ErrDegenerate", err)
		}
	})
}

func TestSnapshot_TranchesFirstCap(t *testing.T) {
	ct := withTerms(t, "series-b", func(s *Security) { s.Participating, s.ParticipationCap = true, R(2) })
	must(t, ct.AppendSecurity(Security{ID: "series-b2", Name: "Series B-2 Preferred", Type: Preferred, Seniority: 3, PricePerShare: USD(1.72414), Participating: true, ParticipationCap: R(3)}))
	must(t, ct.AppendCertificate(Certificate{ID: "PB-2", Security: "series-b2", Shareholder: "Fund C", Date: date.New(2023, 6, 1), Shares: Q(100_000), Cash: USD(172_414)}))
	tr := snapshot(t, ct).tranches()[3]
	if !tr.participating || !tr.cap.Equal(R(2)) {
		t.Errorf("tranches()[3] = participating %v, cap %s, want the first cap 2", tr.participating, tr.cap)
	}
	if tr.count != 2 {
		t.Errorf("tranches()[3].count = %d, want 2", tr.count)
	}
}
