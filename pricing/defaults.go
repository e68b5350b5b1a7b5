package pricing

import "github.com/shopspring/decimal"

// DefaultRules returns the static fallback rule table used when no persisted
// rule configuration is available. Values are illustrative business defaults;
// production deployments override them through the pricing_rules table.
func DefaultRules() []Rule {
	return []Rule{
		// Base rates per job type.
		baseRule("base_replacement", 4.50, UnitSquareFoot, "Full roof replacement"),
		flatRule("base_repair", 150, "Roof repair"),
		baseRule("base_partial_replacement", 5.25, UnitSquareFoot, "Partial roof replacement"),
		baseRule("base_gutter_replacement", 12.00, UnitLinearFoot, "Gutter replacement"),

		// Material multipliers.
		multiplierRule("material_asphalt_shingle", CategoryMaterial, 1.0, "Asphalt shingle"),
		multiplierRule("material_metal", CategoryMaterial, 2.2, "Metal"),
		multiplierRule("material_tile", CategoryMaterial, 2.5, "Tile"),
		multiplierRule("material_slate", CategoryMaterial, 3.0, "Slate"),
		multiplierRule("material_wood_shake", CategoryMaterial, 1.8, "Wood shake"),
		multiplierRule("material_flat_membrane", CategoryMaterial, 1.4, "Flat membrane"),

		// Pitch multipliers.
		multiplierRule("pitch_flat", CategoryPitch, 0.95, "Flat"),
		multiplierRule("pitch_low", CategoryPitch, 1.0, "Low"),
		multiplierRule("pitch_moderate", CategoryPitch, 1.1, "Moderate"),
		multiplierRule("pitch_steep", CategoryPitch, 1.25, "Steep"),

		// Story multipliers.
		multiplierRule("story_2", CategoryStories, 1.15, "Two stories"),
		multiplierRule("story_3", CategoryStories, 1.3, "Three or more stories"),

		// Urgency multipliers.
		multiplierRule("urgency_emergency", CategoryUrgency, 1.5, "Emergency"),
		multiplierRule("urgency_soon", CategoryUrgency, 1.15, "Within two weeks"),
		multiplierRule("urgency_flexible", CategoryUrgency, 0.95, "Flexible"),

		// Feature flat fees.
		feeRule("feature_skylights", CategoryFeature, 400, "Skylights"),
		feeRule("feature_chimneys", CategoryFeature, 300, "Chimneys"),
		feeRule("feature_solar_panels", CategoryFeature, 1200, "Solar panels"),

		// Issue flat fees.
		feeRule("issue_leak", CategoryIssue, 350, "Active leak"),
		feeRule("issue_storm_damage", CategoryIssue, 500, "Storm damage"),
		feeRule("issue_missing_shingles", CategoryIssue, 250, "Missing shingles"),
		feeRule("issue_sagging", CategoryIssue, 800, "Sagging deck"),
		feeRule("issue_mold", CategoryIssue, 450, "Mold or rot"),

		// Range expansion.
		multiplierRule("range_low", CategoryRange, 0.85, "Low estimate"),
		multiplierRule("range_high", CategoryRange, 1.25, "High estimate"),

		// Minimum charges.
		minimumRule("min_replacement", 3500, "Replacement minimum"),
		minimumRule("min_repair", 350, "Repair minimum"),
	}
}

func baseRule(key string, rate float64, unit Unit, name string) Rule {
	return Rule{
		Key:         key,
		Category:    CategoryJobType,
		BaseRate:    decimal.NewNullDecimal(decimal.NewFromFloat(rate)),
		Unit:        unit,
		Multiplier:  decimal.NewFromInt(1),
		FlatFee:     decimal.Zero,
		Active:      true,
		DisplayName: name,
	}
}

func flatRule(key string, fee float64, name string) Rule {
	return Rule{
		Key:         key,
		Category:    CategoryJobType,
		Unit:        UnitFlat,
		Multiplier:  decimal.NewFromInt(1),
		FlatFee:     decimal.NewFromFloat(fee),
		Active:      true,
		DisplayName: name,
	}
}

func multiplierRule(key string, cat Category, mult float64, name string) Rule {
	return Rule{
		Key:         key,
		Category:    cat,
		Multiplier:  decimal.NewFromFloat(mult),
		FlatFee:     decimal.Zero,
		Active:      true,
		DisplayName: name,
	}
}

func feeRule(key string, cat Category, fee float64, name string) Rule {
	return Rule{
		Key:         key,
		Category:    cat,
		Multiplier:  decimal.NewFromInt(1),
		FlatFee:     decimal.NewFromFloat(fee),
		Active:      true,
		DisplayName: name,
	}
}

func minimumRule(key string, minCharge float64, name string) Rule {
	return Rule{
		Key:         key,
		Category:    CategoryMinimum,
		Multiplier:  decimal.NewFromInt(1),
		FlatFee:     decimal.Zero,
		MinCharge:   decimal.NewNullDecimal(decimal.NewFromFloat(minCharge)),
		Active:      true,
		DisplayName: name,
	}
}
