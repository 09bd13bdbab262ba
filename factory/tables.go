/*
Package factory provides JSON to Go statutory-table conversion.

PURPOSE:
  Converts JSON table definitions into statutory.TableSet values. This
  enables table updates without code changes - when the government
  publishes new contribution schedules or tax brackets, payroll admins
  load a new effective-dated JSON table set, and the factory creates the
  proper Go structs.

WHY JSON?
  - Non-developers can load the yearly statutory circulars
  - Easy integration with an admin UI
  - Version control for table definitions
  - Database storage of table configs, versioned by effective date

JSON SCHEMA:
  {
    "name": "2024 schedules",
    "effective_at": "2024-01-01",
    "social_insurance": {
      "employee_rate": 0.045,
      "employer_rate": 0.095,
      "bands": [
        {"from": 0, "to": 4249.99, "msc": 4000},
        {"from": 4250, "to": 4749.99, "msc": 4500}
      ]
    },
    "health_insurance": {"floor": 10000, "ceiling": 100000, "premium_rate": 0.05},
    "housing_fund": {"salary_cap": 10000, "rate": 0.02, "contribution_cap": 200},
    "income_tax": {
      "brackets": [
        {"threshold": 250000, "base_tax": 0, "rate": 0.15, "excess_over": 250000}
      ]
    }
  }

VALIDATION:
  The factory validates the parsed set (ascending bands, ordered clamps,
  strictly ascending brackets) before returning it; a malformed table
  never reaches the engine.

SEE ALSO:
  - statutory/types.go: TableSet definition
  - statutory/defaults.go: Built-in illustrative tables
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/statutory"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// TableSetJSON is the JSON representation of a statutory table set.
type TableSetJSON struct {
	Name            string              `json:"name"`
	EffectiveAt     string              `json:"effective_at"` // YYYY-MM-DD
	SocialInsurance SocialInsuranceJSON `json:"social_insurance"`
	HealthInsurance HealthInsuranceJSON `json:"health_insurance"`
	HousingFund     HousingFundJSON     `json:"housing_fund"`
	IncomeTax       IncomeTaxJSON       `json:"income_tax"`
}

type SocialInsuranceJSON struct {
	EmployeeRate float64       `json:"employee_rate"`
	EmployerRate float64       `json:"employer_rate"`
	Bands        []MSCBandJSON `json:"bands"`
}

type MSCBandJSON struct {
	From float64 `json:"from"`
	To   float64 `json:"to"`
	MSC  float64 `json:"msc"`
}

type HealthInsuranceJSON struct {
	Floor       float64 `json:"floor"`
	Ceiling     float64 `json:"ceiling"`
	PremiumRate float64 `json:"premium_rate"`
}

type HousingFundJSON struct {
	SalaryCap       float64 `json:"salary_cap"`
	Rate            float64 `json:"rate"`
	ContributionCap float64 `json:"contribution_cap"`
}

type IncomeTaxJSON struct {
	Brackets []TaxBracketJSON `json:"brackets"`
}

type TaxBracketJSON struct {
	Threshold  float64 `json:"threshold"`
	BaseTax    float64 `json:"base_tax"`
	Rate       float64 `json:"rate"`
	ExcessOver float64 `json:"excess_over"`
}

// =============================================================================
// FACTORY
// =============================================================================

// TableFactory converts between JSON table definitions and statutory types.
type TableFactory struct{}

// NewTableFactory creates a table factory.
func NewTableFactory() *TableFactory {
	return &TableFactory{}
}

// ParseTableSet parses and validates a JSON table set definition.
func (f *TableFactory) ParseTableSet(jsonStr string) (*statutory.TableSet, error) {
	var raw TableSetJSON
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("invalid table set JSON: %w", err)
	}
	return f.BuildTableSet(raw)
}

// BuildTableSet converts the JSON schema into a validated TableSet.
func (f *TableFactory) BuildTableSet(raw TableSetJSON) (*statutory.TableSet, error) {
	effectiveAt, err := time.Parse("2006-01-02", raw.EffectiveAt)
	if err != nil {
		return nil, fmt.Errorf("invalid effective_at %q (use YYYY-MM-DD): %w", raw.EffectiveAt, err)
	}

	bands := make([]statutory.MSCBand, len(raw.SocialInsurance.Bands))
	for i, b := range raw.SocialInsurance.Bands {
		bands[i] = statutory.MSCBand{
			From: decimal.NewFromFloat(b.From),
			To:   decimal.NewFromFloat(b.To),
			MSC:  decimal.NewFromFloat(b.MSC),
		}
	}

	brackets := make([]statutory.TaxBracket, len(raw.IncomeTax.Brackets))
	for i, b := range raw.IncomeTax.Brackets {
		brackets[i] = statutory.TaxBracket{
			Threshold:  decimal.NewFromFloat(b.Threshold),
			BaseTax:    decimal.NewFromFloat(b.BaseTax),
			Rate:       decimal.NewFromFloat(b.Rate),
			ExcessOver: decimal.NewFromFloat(b.ExcessOver),
		}
	}

	ts := &statutory.TableSet{
		Name:        raw.Name,
		EffectiveAt: effectiveAt,
		SocialInsurance: statutory.SocialInsuranceTable{
			Bands:        bands,
			EmployeeRate: decimal.NewFromFloat(raw.SocialInsurance.EmployeeRate),
			EmployerRate: decimal.NewFromFloat(raw.SocialInsurance.EmployerRate),
		},
		HealthInsurance: statutory.HealthInsuranceTable{
			Floor:       decimal.NewFromFloat(raw.HealthInsurance.Floor),
			Ceiling:     decimal.NewFromFloat(raw.HealthInsurance.Ceiling),
			PremiumRate: decimal.NewFromFloat(raw.HealthInsurance.PremiumRate),
		},
		HousingFund: statutory.HousingFundTable{
			SalaryCap:       decimal.NewFromFloat(raw.HousingFund.SalaryCap),
			Rate:            decimal.NewFromFloat(raw.HousingFund.Rate),
			ContributionCap: decimal.NewFromFloat(raw.HousingFund.ContributionCap),
		},
		IncomeTax: statutory.IncomeTaxTable{Brackets: brackets},
	}

	if err := ts.Validate(); err != nil {
		return nil, err
	}
	return ts, nil
}

// RenderTableSet converts a TableSet back to its JSON definition, used when
// persisting table versions.
func (f *TableFactory) RenderTableSet(ts statutory.TableSet) (string, error) {
	raw := TableSetJSON{
		Name:        ts.Name,
		EffectiveAt: ts.EffectiveAt.Format("2006-01-02"),
		SocialInsurance: SocialInsuranceJSON{
			EmployeeRate: ts.SocialInsurance.EmployeeRate.InexactFloat64(),
			EmployerRate: ts.SocialInsurance.EmployerRate.InexactFloat64(),
		},
		HealthInsurance: HealthInsuranceJSON{
			Floor:       ts.HealthInsurance.Floor.InexactFloat64(),
			Ceiling:     ts.HealthInsurance.Ceiling.InexactFloat64(),
			PremiumRate: ts.HealthInsurance.PremiumRate.InexactFloat64(),
		},
		HousingFund: HousingFundJSON{
			SalaryCap:       ts.HousingFund.SalaryCap.InexactFloat64(),
			Rate:            ts.HousingFund.Rate.InexactFloat64(),
			ContributionCap: ts.HousingFund.ContributionCap.InexactFloat64(),
		},
	}
	for _, b := range ts.SocialInsurance.Bands {
		raw.SocialInsurance.Bands = append(raw.SocialInsurance.Bands, MSCBandJSON{
			From: b.From.InexactFloat64(),
			To:   b.To.InexactFloat64(),
			MSC:  b.MSC.InexactFloat64(),
		})
	}
	for _, b := range ts.IncomeTax.Brackets {
		raw.IncomeTax.Brackets = append(raw.IncomeTax.Brackets, TaxBracketJSON{
			Threshold:  b.Threshold.InexactFloat64(),
			BaseTax:    b.BaseTax.InexactFloat64(),
			Rate:       b.Rate.InexactFloat64(),
			ExcessOver: b.ExcessOver.InexactFloat64(),
		})
	}

	out, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("render table set: %w", err)
	}
	return string(out), nil
}
