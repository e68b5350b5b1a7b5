package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Input is the transient intake snapshot consumed by one calculation.
// Lifecycle is caller-owned: constructed fresh per estimate request and
// discarded after use.
type Input struct {
	JobType        JobType  `json:"job_type"`
	Material       Material `json:"material,omitempty"`
	Pitch          Pitch    `json:"pitch,omitempty"`
	Stories        int      `json:"stories,omitempty"`
	Urgency        Urgency  `json:"urgency,omitempty"`
	HasSkylights   bool     `json:"has_skylights,omitempty"`
	HasChimneys    bool     `json:"has_chimneys,omitempty"`
	HasSolarPanels bool     `json:"has_solar_panels,omitempty"`
	Issues         []Issue  `json:"issues,omitempty"`
	RoofSizeSqft   *float64 `json:"roof_size_sqft,omitempty"`
}

// Adjustment is one computed, named contribution to the final price.
type Adjustment struct {
	Name        string          `json:"name"`
	RuleKey     string          `json:"rule_key"`
	Impact      decimal.Decimal `json:"impact"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
}

// Result is the aggregate output of one calculation. Ownership transfers
// fully to the caller; the engine keeps no reference to it.
type Result struct {
	PriceLow     decimal.Decimal `json:"price_low"`
	PriceLikely  decimal.Decimal `json:"price_likely"`
	PriceHigh    decimal.Decimal `json:"price_high"`
	BaseCost     decimal.Decimal `json:"base_cost"`
	MaterialCost decimal.Decimal `json:"material_cost"`
	LaborCost    decimal.Decimal `json:"labor_cost"`
	Adjustments  []Adjustment    `json:"adjustments"`
	Input        Input           `json:"input"`
	Rules        []Rule          `json:"rules"`
}

// Engine computes estimates against an immutable rule store. A single
// engine may be shared by concurrent callers.
type Engine struct {
	store *RuleStore
}

// NewEngine builds an engine over the given rules. When the list carries no
// active rules (empty configuration, database unreachable) the built-in
// default table is used instead, so an estimate is always producible.
func NewEngine(rules []Rule) *Engine {
	store := NewRuleStore(rules)
	if store.Len() == 0 {
		store = NewRuleStore(DefaultRules())
	}
	return &Engine{store: store}
}

// Store exposes the engine's rule store for inspection.
func (e *Engine) Store() *RuleStore { return e.store }

var (
	one             = decimal.NewFromInt(1)
	materialSplit   = decimal.NewFromFloat(0.4)
	laborSplit      = decimal.NewFromFloat(0.6)
	defaultRangeLow = decimal.NewFromFloat(DefaultRangeLowMultiplier)
	defaultRangeHigh = decimal.NewFromFloat(DefaultRangeHighMultiplier)
	defaultMinReplacement = decimal.NewFromFloat(DefaultMinReplacementCharge)
	defaultMinRepair      = decimal.NewFromFloat(DefaultMinRepairCharge)
)

// Default fallback constants applied when a range or minimum rule is
// missing from the active rule set.
const (
	DefaultRoofSizeSqft         = 2000.0
	DefaultMinReplacementCharge = 3500.0
	DefaultMinRepairCharge      = 350.0
	DefaultRangeLowMultiplier   = 0.85
	DefaultRangeHighMultiplier  = 1.25
)

// placeholder remembers a multiplier adjustment whose dollar impact is
// resolved after all multipliers are known.
type placeholder struct {
	index      int
	multiplier decimal.Decimal
}

// Calculate transforms an intake snapshot into a priced estimate. It is a
// total function of its inputs: no rule lookup failure is fatal, every
// missing rule degrades to a default or is skipped.
func (e *Engine) Calculate(in Input) Result {
	var (
		adjustments  []Adjustment
		placeholders []placeholder
	)

	roofSize := DefaultRoofSizeSqft
	if in.RoofSizeSqft != nil && *in.RoofSizeSqft > 0 {
		roofSize = *in.RoofSizeSqft
	}

	// 1. Base cost selection.
	baseCost := decimal.Zero
	baseRule, ok := e.store.Rule(in.JobType.BaseRuleKey())
	if !ok {
		baseRule, ok = e.store.Rule(JobTypeRepair.BaseRuleKey())
	}
	if ok {
		baseCost = baseRuleCost(baseRule, roofSize)
		adjustments = append(adjustments, Adjustment{
			Name:        baseRule.DisplayName,
			RuleKey:     baseRule.Key,
			Impact:      baseCost,
			Description: baseRuleDescription(baseRule, roofSize),
			Category:    CategoryJobType,
		})
	}

	totalMultiplier := one

	appendMultiplier := func(r Rule, description string) {
		totalMultiplier = totalMultiplier.Mul(r.Multiplier)
		adjustments = append(adjustments, Adjustment{
			Name:        r.DisplayName,
			RuleKey:     r.Key,
			Impact:      decimal.Zero,
			Description: description,
			Category:    r.Category,
		})
		placeholders = append(placeholders, placeholder{index: len(adjustments) - 1, multiplier: r.Multiplier})
	}

	// 2. Material multiplier.
	if in.Material != "" {
		if r, ok := e.store.Rule(in.Material.RuleKey()); ok && !r.Multiplier.Equal(one) {
			appendMultiplier(r, fmt.Sprintf("%s material at %sx", r.DisplayName, r.Multiplier.String()))
		}
	}

	// 3. Pitch multiplier.
	if in.Pitch != "" {
		if r, ok := e.store.Rule(in.Pitch.RuleKey()); ok && !r.Multiplier.Equal(one) {
			appendMultiplier(r, fmt.Sprintf("%s pitch at %sx", r.DisplayName, r.Multiplier.String()))
		}
	}

	// 4. Story multiplier. Single-story jobs carry no story adjustment.
	if in.Stories > 1 {
		if r, ok := e.store.Rule(StoryRuleKey(in.Stories)); ok && !r.Multiplier.Equal(one) {
			appendMultiplier(r, fmt.Sprintf("%s at %sx", r.DisplayName, r.Multiplier.String()))
		}
	}

	// 5. Urgency multiplier.
	if in.Urgency != "" {
		if r, ok := e.store.Rule(in.Urgency.RuleKey()); ok && !r.Multiplier.Equal(one) {
			desc := fmt.Sprintf("Flexible schedule discount at %sx", r.Multiplier.String())
			if r.Multiplier.GreaterThan(one) {
				desc = fmt.Sprintf("%s premium at %sx", r.DisplayName, r.Multiplier.String())
			}
			appendMultiplier(r, desc)
		}
	}

	// 6. Feature flat fees, added directly, never multiplied.
	for _, f := range []struct {
		present bool
		key     string
	}{
		{in.HasSkylights, FeatureSkylightsRuleKey},
		{in.HasChimneys, FeatureChimneysRuleKey},
		{in.HasSolarPanels, FeatureSolarPanelsRuleKey},
	} {
		if !f.present {
			continue
		}
		if r, ok := e.store.Rule(f.key); ok {
			adjustments = append(adjustments, Adjustment{
				Name:        r.DisplayName,
				RuleKey:     r.Key,
				Impact:      r.FlatFee,
				Description: fmt.Sprintf("%s handling", r.DisplayName),
				Category:    CategoryFeature,
			})
		}
	}

	// 7. Issue flat fees.
	for _, issue := range in.Issues {
		if r, ok := e.store.Rule(issue.RuleKey()); ok {
			adjustments = append(adjustments, Adjustment{
				Name:        r.DisplayName,
				RuleKey:     r.Key,
				Impact:      r.FlatFee,
				Description: fmt.Sprintf("%s remediation", r.DisplayName),
				Category:    CategoryIssue,
			})
		}
	}

	// 8. Multiplier resolution. Each multiplicative rule's dollar impact is
	// reported relative to the original base cost, not compounded against
	// prior multipliers; compounding applies only to the total.
	multipliedBase := baseCost.Mul(totalMultiplier)
	for _, p := range placeholders {
		adjustments[p.index].Impact = baseCost.Mul(p.multiplier.Sub(one))
	}

	// 9. Flat-fee aggregation.
	flatFees := decimal.Zero
	for _, a := range adjustments {
		if a.Category == CategoryFeature || a.Category == CategoryIssue {
			flatFees = flatFees.Add(a.Impact)
		}
	}

	// 10. Likely price.
	priceLikely := multipliedBase.Add(flatFees)

	// 11. Minimum charge floor.
	minCharge := e.minimumCharge(in.JobType)
	if priceLikely.LessThan(minCharge) {
		priceLikely = minCharge
	}

	// 12. Range computation.
	lowMult, highMult := e.rangeMultipliers()
	priceLow := priceLikely.Mul(lowMult).Round(0)
	priceHigh := priceLikely.Mul(highMult).Round(0)

	// 13. Cost breakdown: a fixed illustrative split, not derived from rule
	// categories.
	materialCost := priceLikely.Mul(materialSplit).Round(0)
	laborCost := priceLikely.Mul(laborSplit).Round(0)

	// 14. Result assembly. Zero-impact adjustments never surface.
	final := make([]Adjustment, 0, len(adjustments))
	for _, a := range adjustments {
		if a.Impact.IsZero() {
			continue
		}
		final = append(final, a)
	}

	return Result{
		PriceLow:     priceLow,
		PriceLikely:  priceLikely,
		PriceHigh:    priceHigh,
		BaseCost:     baseCost,
		MaterialCost: materialCost,
		LaborCost:    laborCost,
		Adjustments:  final,
		Input:        in,
		Rules:        e.store.Rules(),
	}
}

// baseRuleCost applies a base rule's unit semantics to the roof size.
func baseRuleCost(r Rule, roofSizeSqft float64) decimal.Decimal {
	switch r.Unit {
	case UnitSquareFoot:
		if !r.BaseRate.Valid {
			return decimal.Zero
		}
		return r.BaseRate.Decimal.Mul(decimal.NewFromFloat(roofSizeSqft))
	case UnitLinearFoot:
		if !r.BaseRate.Valid {
			return decimal.Zero
		}
		// Perimeter estimated from the footprint of a square roof.
		perimeter := math.Sqrt(roofSizeSqft) * 4
		return r.BaseRate.Decimal.Mul(decimal.NewFromFloat(perimeter))
	default:
		if r.BaseRate.Valid {
			return r.BaseRate.Decimal
		}
		return r.FlatFee
	}
}

func baseRuleDescription(r Rule, roofSizeSqft float64) string {
	switch r.Unit {
	case UnitSquareFoot:
		return fmt.Sprintf("%s for %.0f sqft", r.DisplayName, roofSizeSqft)
	case UnitLinearFoot:
		return fmt.Sprintf("%s for approx. %.0f linear ft", r.DisplayName, math.Sqrt(roofSizeSqft)*4)
	default:
		return r.DisplayName
	}
}

// minimumCharge resolves the floor for a job type, falling back to the
// hardcoded defaults when the rule is missing.
func (e *Engine) minimumCharge(j JobType) decimal.Decimal {
	if r, ok := e.store.Rule(j.MinimumRuleKey()); ok && r.MinCharge.Valid {
		return r.MinCharge.Decimal
	}
	if j == JobTypeFullReplacement {
		return defaultMinReplacement
	}
	return defaultMinRepair
}

// rangeMultipliers resolves the low/high range multipliers with defaults.
func (e *Engine) rangeMultipliers() (low, high decimal.Decimal) {
	low, high = defaultRangeLow, defaultRangeHigh
	if r, ok := e.store.Rule("range_low"); ok {
		low = r.Multiplier
	}
	if r, ok := e.store.Rule("range_high"); ok {
		high = r.Multiplier
	}
	return low, high
}
