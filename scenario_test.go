package captable

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const scenariosYAML = `
scenarios:
  - name: small
    new_money: 1000000
    pre_valuation: 9000000
  - name: pool
    new_money: 4000000
    pre_valuation: 16000000
    pool_rata: 0.15
  - new_money: 10000000
    pre_valuation: 40000000
`

func TestDecodeScenarios(t *testing.T) {
	scenarios, err := DecodeScenarios(strings.NewReader(scenariosYAML), "USD")
	if err != nil {
		t.Fatalf("DecodeScenarios() unexpected error: %v", err)
	}
	if len(scenarios) != 3 {
		t.Fatalf("DecodeScenarios() returned %d scenarios, want 3", len(scenarios))
	}
	if got := scenarios[2].Name; got != "scenario 3" {
		t.Errorf("unnamed scenario = %q, want %q", got, "scenario 3")
	}
	if got, want := scenarios[1].Financing.PoolRata, R(0.15); !got.Equal(want) {
		t.Errorf("pool rata = %s, want %s", got, want)
	}
	if got, want := scenarios[0].Financing.NewMoney, USD(1_000_000); !got.Equal(want) {
		t.Errorf("new money = %s, want %s", got, want)
	}
}

func TestDecodeScenariosErrors(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"unknown field", "scenarios:\n  - name: x\n    money: 1\n"},
		{"invalid financing", "scenarios:\n  - name: x\n    new_money: 0\n    pre_valuation: 1\n"},
		{"not yaml", "scenarios: [\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeScenarios(strings.NewReader(tc.yaml), "USD"); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("DecodeScenarios() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestSnapshot_RunScenarios(t *testing.T) {
	s := snapshot(t, newFixture(t))
	scenarios, err := DecodeScenarios(strings.NewReader(scenariosYAML), "USD")
	if err != nil {
		t.Fatalf("DecodeScenarios() unexpected error: %v", err)
	}

	results, err := s.RunScenarios(context.Background(), scenarios)
	if err != nil {
		t.Fatalf("RunScenarios() unexpected error: %v", err)
	}
	for i, r := range results {
		if r.Name != scenarios[i].Name {
			t.Errorf("results[%d] = %q, want %q", i, r.Name, scenarios[i].Name)
		}
		want, err := s.NewFinancingReport(scenarios[i].Financing)
		if err != nil {
			t.Fatalf("NewFinancingReport() unexpected error: %v", err)
		}
		if !r.Report.Proforma.Price.Equal(want.Proforma.Price) {
			t.Errorf("%s: price = %s, want %s", r.Name, r.Report.Proforma.Price, want.Proforma.Price)
		}
	}
}

func TestSnapshot_RunScenariosFailure(t *testing.T) {
	s := snapshot(t, newFixture(t))
	scenarios := []Scenario{
		{Name: "ok", Financing: Financing{NewMoney: USD(1), PreValuation: USD(4)}},
		{Name: "too much", Financing: Financing{NewMoney: USD(1), PreValuation: USD(1), PoolRata: R(0.6)}},
	}
	if _, err := s.RunScenarios(context.Background(), scenarios); !errors.Is(err, ErrDegenerate) {
		t.Errorf("RunScenarios() error = %v, want ErrDegenerate", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.RunScenarios(ctx, scenarios[:1]); !errors.Is(err, context.Canceled) {
		t.Errorf("RunScenarios() on a cancelled context error = %v, want context.Canceled", err)
	}
}
