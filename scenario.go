package captable

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"
)

// Scenario is a named financing to evaluate against the cap table.
type Scenario struct {
	Name      string
	Financing Financing
}

// scenarioFile is the YAML layout of a scenario file:
//
//	scenarios:
//	  - name: seed
//	    new_money: 2000000
//	    pre_valuation: 8000000
//	    pool_rata: 0.1
type scenarioFile struct {
	Scenarios []struct {
		Name         string  `yaml:"name"`
		NewMoney     float64 `yaml:"new_money"`
		PreValuation float64 `yaml:"pre_valuation"`
		PoolRata     float64 `yaml:"pool_rata"`
	} `yaml:"scenarios"`
}

// DecodeScenarios reads a YAML scenario file. Amounts are in cur.
func DecodeScenarios(r io.Reader, cur string) ([]Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read scenarios: %w", err)
	}
	var file scenarioFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("%w: could not parse scenarios: %v", ErrInvalidInput, err)
	}

	var errs []error
	scenarios := make([]Scenario, 0, len(file.Scenarios))
	for i, sc := range file.Scenarios {
		name := sc.Name
		if name == "" {
			name = fmt.Sprintf("scenario %d", i+1)
		}
		f := Financing{
			NewMoney:     M(sc.NewMoney, cur),
			PreValuation: M(sc.PreValuation, cur),
			PoolRata:     R(sc.PoolRata),
		}
		if err := f.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		scenarios = append(scenarios, Scenario{Name: name, Financing: f})
	}
	return scenarios, errors.Join(errs...)
}

// ScenarioResult is the financing report of one scenario.
type ScenarioResult struct {
	Name   string           `json:"name"`
	Report *FinancingReport `json:"report"`
}

// RunScenarios evaluates every scenario concurrently against the snapshot.
// Results are in the scenarios order. The first failure cancels the others.
func (s *Snapshot) RunScenarios(ctx context.Context, scenarios []Scenario) ([]ScenarioResult, error) {
	results := make([]ScenarioResult, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, sc := range scenarios {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := s.NewFinancingReport(sc.Financing)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			results[i] = ScenarioResult{Name: sc.Name, Report: report}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
