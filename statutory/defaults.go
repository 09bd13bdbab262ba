/*
defaults.go - Built-in illustrative table set

PURPOSE:
  A complete, valid TableSet usable out of the box for demos and tests.
  Figures follow the shape of the Philippine statutory tables (SSS-style
  MSC bands, PhilHealth-style clamped premium, Pag-IBIG-style dual-cap
  fund, TRAIN-style progressive brackets). Production deployments load
  their effective-dated tables through the factory package instead.
*/
package statutory

import (
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// DefaultTableSet returns the built-in illustrative tables.
func DefaultTableSet() TableSet {
	return TableSet{
		Name:        "default",
		EffectiveAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		SocialInsurance: SocialInsuranceTable{
			Bands:        defaultMSCBands(),
			EmployeeRate: d("0.045"),
			EmployerRate: d("0.095"),
		},
		HealthInsurance: HealthInsuranceTable{
			Floor:       d("10000"),
			Ceiling:     d("100000"),
			PremiumRate: d("0.05"),
		},
		HousingFund: HousingFundTable{
			SalaryCap:       d("10000"),
			Rate:            d("0.02"),
			ContributionCap: d("200"),
		},
		IncomeTax: IncomeTaxTable{
			Brackets: []TaxBracket{
				{Threshold: d("250000"), BaseTax: d("0"), Rate: d("0.15"), ExcessOver: d("250000")},
				{Threshold: d("400000"), BaseTax: d("22500"), Rate: d("0.20"), ExcessOver: d("400000")},
				{Threshold: d("800000"), BaseTax: d("102500"), Rate: d("0.25"), ExcessOver: d("800000")},
				{Threshold: d("2000000"), BaseTax: d("402500"), Rate: d("0.30"), ExcessOver: d("2000000")},
				{Threshold: d("8000000"), BaseTax: d("2202500"), Rate: d("0.35"), ExcessOver: d("8000000")},
			},
		},
	}
}

// defaultMSCBands generates the ascending MSC band ladder: floor MSC 4,000
// below a 4,250 salary, then 500-peso steps up to the 30,000 ceiling.
func defaultMSCBands() []MSCBand {
	const (
		floorMSC   = 4000
		ceilingMSC = 30000
		step       = 500
	)

	bands := []MSCBand{{
		From: d("0"),
		To:   d("4249.99"),
		MSC:  decimal.NewFromInt(floorMSC),
	}}

	for msc := floorMSC + step; msc < ceilingMSC; msc += step {
		from := decimal.NewFromInt(int64(msc - step/2))
		bands = append(bands, MSCBand{
			From: from,
			To:   from.Add(d("499.99")),
			MSC:  decimal.NewFromInt(int64(msc)),
		})
	}

	// Ceiling band: everything from 29,750 up maps to the 30,000 MSC.
	bands = append(bands, MSCBand{
		From: decimal.NewFromInt(ceilingMSC - step/2),
		To:   d("99999999.99"),
		MSC:  decimal.NewFromInt(ceilingMSC),
	})

	return bands
}
