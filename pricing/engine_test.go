package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float(f float64) *float64 { return &f }

func TestCalculateReplacementScenario(t *testing.T) {
	engine := NewEngine(DefaultRules())

	result := engine.Calculate(Input{
		JobType:      JobTypeFullReplacement,
		Material:     MaterialMetal,
		Pitch:        PitchSteep,
		Stories:      1,
		RoofSizeSqft: float(2000),
	})

	// base 4.50/sqft x 2000 = 9000, multipliers 2.2 x 1.25 = 2.75
	assert.True(t, decimal.NewFromInt(9000).Equal(result.BaseCost), "base cost %s", result.BaseCost)
	assert.True(t, decimal.NewFromInt(24750).Equal(result.PriceLikely), "likely %s", result.PriceLikely)
	assert.True(t, decimal.NewFromInt(21038).Equal(result.PriceLow), "low %s", result.PriceLow)
	assert.True(t, decimal.NewFromInt(30938).Equal(result.PriceHigh), "high %s", result.PriceHigh)

	// 40/60 illustrative split of the likely price
	assert.True(t, decimal.NewFromInt(9900).Equal(result.MaterialCost), "material %s", result.MaterialCost)
	assert.True(t, decimal.NewFromInt(14850).Equal(result.LaborCost), "labor %s", result.LaborCost)

	// base + two multiplier adjustments, no flat fees
	require.Len(t, result.Adjustments, 3)
	assert.Equal(t, "base_replacement", result.Adjustments[0].RuleKey)
	assert.Equal(t, "material_metal", result.Adjustments[1].RuleKey)
	assert.Equal(t, "pitch_steep", result.Adjustments[2].RuleKey)
}

func TestCalculateRepairFloor(t *testing.T) {
	engine := NewEngine(DefaultRules())

	// base_repair has a flat fee of 150 and no multipliers trigger, so the
	// minimum charge clamps the likely price to exactly 350.
	result := engine.Calculate(Input{JobType: JobTypeRepair, Stories: 1})

	assert.True(t, decimal.NewFromInt(150).Equal(result.BaseCost), "base %s", result.BaseCost)
	assert.True(t, decimal.NewFromInt(350).Equal(result.PriceLikely), "likely %s", result.PriceLikely)
}

func TestCalculateConfiguredMinimum(t *testing.T) {
	rules := append(DefaultRules(), minimumRule("min_repair", 500, "Repair minimum"))
	engine := NewEngine(rules)

	// Last write wins for the duplicated min_repair key.
	result := engine.Calculate(Input{JobType: JobTypeRepair})
	assert.True(t, decimal.NewFromInt(500).Equal(result.PriceLikely), "likely %s", result.PriceLikely)
}

func TestCalculateDeterminism(t *testing.T) {
	engine := NewEngine(DefaultRules())
	in := Input{
		JobType:        JobTypeFullReplacement,
		Material:       MaterialTile,
		Pitch:          PitchModerate,
		Stories:        2,
		Urgency:        UrgencyEmergency,
		HasSkylights:   true,
		HasSolarPanels: true,
		Issues:         []Issue{IssueLeak, IssueStormDamage},
		RoofSizeSqft:   float(2400),
	}

	first := engine.Calculate(in)
	second := engine.Calculate(in)
	assert.Equal(t, first, second)
}

func TestCalculateRangeOrdering(t *testing.T) {
	engine := NewEngine(DefaultRules())

	inputs := []Input{
		{JobType: JobTypeRepair},
		{JobType: JobTypeFullReplacement, Material: MaterialSlate, Pitch: PitchSteep, Stories: 3},
		{JobType: JobTypeGutterReplacement, RoofSizeSqft: float(1600)},
		{JobType: JobTypePartialReplacement, Urgency: UrgencyFlexible, RoofSizeSqft: float(800)},
	}
	for _, in := range inputs {
		result := engine.Calculate(in)
		assert.True(t, result.PriceLow.LessThanOrEqual(result.PriceLikely),
			"low %s > likely %s for %+v", result.PriceLow, result.PriceLikely, in)
		assert.True(t, result.PriceLikely.LessThanOrEqual(result.PriceHigh),
			"likely %s > high %s for %+v", result.PriceLikely, result.PriceHigh, in)
	}
}

func TestCalculateMultiplierReporting(t *testing.T) {
	engine := NewEngine(DefaultRules())

	result := engine.Calculate(Input{
		JobType:      JobTypeFullReplacement,
		Material:     MaterialMetal,
		Pitch:        PitchSteep,
		Stories:      2,
		Urgency:      UrgencyEmergency,
		RoofSizeSqft: float(2000),
	})

	// Each multiplier's reported impact is baseCost x (multiplier - 1),
	// relative to the original base, never compounded.
	base := result.BaseCost
	wantImpacts := map[string]decimal.Decimal{
		"material_metal":    base.Mul(decimal.NewFromFloat(1.2)),
		"pitch_steep":       base.Mul(decimal.NewFromFloat(0.25)),
		"story_2":           base.Mul(decimal.NewFromFloat(0.15)),
		"urgency_emergency": base.Mul(decimal.NewFromFloat(0.5)),
	}

	reportedSum := decimal.Zero
	for _, a := range result.Adjustments {
		want, ok := wantImpacts[a.RuleKey]
		if !ok {
			continue
		}
		assert.True(t, want.Equal(a.Impact), "rule %s impact %s want %s", a.RuleKey, a.Impact, want)
		reportedSum = reportedSum.Add(a.Impact)
	}

	// The compounded total differs from base + sum of independent impacts:
	// 9000 x 2.2 x 1.25 x 1.15 x 1.5 = 42693.75.
	assert.True(t, decimal.NewFromFloat(42693.75).Equal(result.PriceLikely),
		"likely %s should compound multipliers", result.PriceLikely)
	assert.False(t, base.Add(reportedSum).Equal(result.PriceLikely),
		"reported impacts are independent, not compounded")
}

func TestCalculateZeroImpactFiltering(t *testing.T) {
	engine := NewEngine(DefaultRules())

	// Asphalt shingle carries a multiplier of exactly 1 and must not appear;
	// absent features and issues must not appear either.
	result := engine.Calculate(Input{
		JobType:      JobTypeFullReplacement,
		Material:     MaterialAsphaltShingle,
		Pitch:        PitchLow,
		Stories:      1,
		RoofSizeSqft: float(2000),
	})

	for _, a := range result.Adjustments {
		assert.False(t, a.Impact.IsZero(), "zero-impact adjustment %s leaked", a.RuleKey)
		assert.NotEqual(t, "material_asphalt_shingle", a.RuleKey)
		assert.NotEqual(t, CategoryFeature, a.Category)
		assert.NotEqual(t, CategoryIssue, a.Category)
	}
}

func TestCalculateFlatFees(t *testing.T) {
	engine := NewEngine(DefaultRules())

	result := engine.Calculate(Input{
		JobType:      JobTypeFullReplacement,
		HasSkylights: true,
		HasChimneys:  true,
		Issues:       []Issue{IssueSagging},
		RoofSizeSqft: float(2000),
	})

	// 9000 base + 400 + 300 + 800 in flat fees, no multipliers
	assert.True(t, decimal.NewFromInt(10500).Equal(result.PriceLikely), "likely %s", result.PriceLikely)

	var fees decimal.Decimal
	for _, a := range result.Adjustments {
		if a.Category == CategoryFeature || a.Category == CategoryIssue {
			fees = fees.Add(a.Impact)
		}
	}
	assert.True(t, decimal.NewFromInt(1500).Equal(fees), "fees %s", fees)
}

func TestCalculateLinearFootBase(t *testing.T) {
	engine := NewEngine(DefaultRules())

	// 1600 sqft footprint -> 40ft side -> 160 linear ft of gutters at 12/ft.
	result := engine.Calculate(Input{
		JobType:      JobTypeGutterReplacement,
		RoofSizeSqft: float(1600),
	})
	assert.True(t, decimal.NewFromInt(1920).Equal(result.BaseCost), "base %s", result.BaseCost)
}

func TestCalculateRoofSizeDefault(t *testing.T) {
	engine := NewEngine(DefaultRules())

	withDefault := engine.Calculate(Input{JobType: JobTypeFullReplacement})
	explicit := engine.Calculate(Input{JobType: JobTypeFullReplacement, RoofSizeSqft: float(2000)})
	assert.True(t, withDefault.BaseCost.Equal(explicit.BaseCost))

	// The persisted input keeps the caller's nil; the default is engine-internal.
	assert.Nil(t, withDefault.Input.RoofSizeSqft)
}

func TestCalculateUnknownBaseFallsBackToRepair(t *testing.T) {
	rules := []Rule{
		flatRule("base_repair", 150, "Roof repair"),
		minimumRule("min_repair", 350, "Repair minimum"),
	}
	engine := NewEngine(rules)

	// No base_replacement rule configured; base_repair is the fallback.
	result := engine.Calculate(Input{JobType: JobTypeFullReplacement})
	assert.True(t, decimal.NewFromInt(150).Equal(result.BaseCost), "base %s", result.BaseCost)

	// The replacement minimum is absent too, so the hardcoded default floors it.
	assert.True(t, decimal.NewFromInt(3500).Equal(result.PriceLikely), "likely %s", result.PriceLikely)
}

func TestCalculateStoriesCap(t *testing.T) {
	engine := NewEngine(DefaultRules())

	three := engine.Calculate(Input{JobType: JobTypeFullReplacement, Stories: 3, RoofSizeSqft: float(2000)})
	seven := engine.Calculate(Input{JobType: JobTypeFullReplacement, Stories: 7, RoofSizeSqft: float(2000)})
	assert.True(t, three.PriceLikely.Equal(seven.PriceLikely), "stories above 3 share the story_3 rule")
}

func TestCalculateResultSnapshots(t *testing.T) {
	engine := NewEngine(DefaultRules())

	in := Input{JobType: JobTypeRepair, Issues: []Issue{IssueLeak}}
	result := engine.Calculate(in)

	assert.Equal(t, in, result.Input)
	assert.Len(t, result.Rules, engine.Store().Len())
}

func TestNewEngineEmptyRulesUsesDefaults(t *testing.T) {
	engine := NewEngine(nil)
	require.NotZero(t, engine.Store().Len())

	result := engine.Calculate(Input{JobType: JobTypeFullReplacement, RoofSizeSqft: float(2000)})
	assert.True(t, decimal.NewFromInt(9000).Equal(result.BaseCost))
}

func TestRuleKeyMapping(t *testing.T) {
	assert.Equal(t, "base_replacement", JobTypeFullReplacement.BaseRuleKey())
	assert.Equal(t, "base_repair", JobTypeRepair.BaseRuleKey())
	assert.Equal(t, "base_partial_replacement", JobTypePartialReplacement.BaseRuleKey())
	assert.Equal(t, "min_replacement", JobTypeFullReplacement.MinimumRuleKey())
	assert.Equal(t, "min_repair", JobTypeGutterReplacement.MinimumRuleKey())
	assert.Equal(t, "material_metal", MaterialMetal.RuleKey())
	assert.Equal(t, "pitch_steep", PitchSteep.RuleKey())
	assert.Equal(t, "urgency_emergency", UrgencyEmergency.RuleKey())
	assert.Equal(t, "issue_storm_damage", IssueStormDamage.RuleKey())
	assert.Equal(t, "story_2", StoryRuleKey(2))
	assert.Equal(t, "story_3", StoryRuleKey(3))
	assert.Equal(t, "story_3", StoryRuleKey(12))
}
