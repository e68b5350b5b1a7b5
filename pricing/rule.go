// Package pricing implements the roofing estimate calculator: a configurable
// rule set (base rates, multipliers, flat fees, minimums) applied to intake
// data to produce a price range. Calculations are pure and deterministic.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category tags a rule with the pricing factor it controls.
type Category string

const (
	CategoryJobType Category = "job_type"
	CategoryMaterial Category = "material"
	CategoryPitch    Category = "pitch"
	CategoryStories  Category = "stories"
	CategoryUrgency  Category = "urgency"
	CategoryFeature  Category = "feature"
	CategoryIssue    Category = "issue"
	CategoryRange    Category = "range"
	CategoryMinimum  Category = "minimum"
)

// Valid checks if the category is a known rule category.
func (c Category) Valid() bool {
	switch c {
	case CategoryJobType, CategoryMaterial, CategoryPitch, CategoryStories,
		CategoryUrgency, CategoryFeature, CategoryIssue, CategoryRange, CategoryMinimum:
		return true
	default:
		return false
	}
}

// Unit describes how a base rate is applied.
type Unit string

const (
	UnitSquareFoot Unit = "sqft"
	UnitLinearFoot Unit = "linear_ft"
	UnitFlat       Unit = "flat"
)

// Rule is one configurable pricing factor.
type Rule struct {
	Key         string              `json:"rule_key"`
	Category    Category            `json:"rule_category"`
	BaseRate    decimal.NullDecimal `json:"base_rate"`
	Unit        Unit                `json:"unit,omitempty"`
	Multiplier  decimal.Decimal     `json:"multiplier"`
	FlatFee     decimal.Decimal     `json:"flat_fee"`
	MinCharge   decimal.NullDecimal `json:"min_charge"`
	Active      bool                `json:"is_active"`
	DisplayName string              `json:"display_name"`
}

// JobType is the closed set of job types the funnel collects.
type JobType string

const (
	JobTypeFullReplacement    JobType = "full_replacement"
	JobTypeRepair             JobType = "repair"
	JobTypePartialReplacement JobType = "partial_replacement"
	JobTypeGutterReplacement  JobType = "gutter_replacement"
)

// Valid checks if the job type is known.
func (j JobType) Valid() bool {
	switch j {
	case JobTypeFullReplacement, JobTypeRepair, JobTypePartialReplacement, JobTypeGutterReplacement:
		return true
	default:
		return false
	}
}

// BaseRuleKey maps a job type to its base-cost rule key. Full replacement
// uses the historical "base_replacement" key; all others map directly.
func (j JobType) BaseRuleKey() string {
	if j == JobTypeFullReplacement {
		return "base_replacement"
	}
	return "base_" + string(j)
}

// MinimumRuleKey maps a job type to its minimum-charge rule key.
func (j JobType) MinimumRuleKey() string {
	if j == JobTypeFullReplacement {
		return "min_replacement"
	}
	return "min_repair"
}

// Material is the closed set of roof materials.
type Material string

const (
	MaterialAsphaltShingle Material = "asphalt_shingle"
	MaterialMetal          Material = "metal"
	MaterialTile           Material = "tile"
	MaterialSlate          Material = "slate"
	MaterialWoodShake      Material = "wood_shake"
	MaterialFlatMembrane   Material = "flat_membrane"
)

// Valid checks if the material is known.
func (m Material) Valid() bool {
	switch m {
	case MaterialAsphaltShingle, MaterialMetal, MaterialTile, MaterialSlate,
		MaterialWoodShake, MaterialFlatMembrane:
		return true
	default:
		return false
	}
}

// RuleKey returns the material multiplier rule key.
func (m Material) RuleKey() string { return "material_" + string(m) }

// Pitch is the closed set of roof pitch buckets.
type Pitch string

const (
	PitchFlat     Pitch = "flat"
	PitchLow      Pitch = "low"
	PitchModerate Pitch = "moderate"
	PitchSteep    Pitch = "steep"
)

// Valid checks if the pitch is known.
func (p Pitch) Valid() bool {
	switch p {
	case PitchFlat, PitchLow, PitchModerate, PitchSteep:
		return true
	default:
		return false
	}
}

// RuleKey returns the pitch multiplier rule key.
func (p Pitch) RuleKey() string { return "pitch_" + string(p) }

// Urgency is the closed set of scheduling urgencies.
type Urgency string

const (
	UrgencyEmergency Urgency = "emergency"
	UrgencySoon      Urgency = "soon"
	UrgencyFlexible  Urgency = "flexible"
)

// Valid checks if the urgency is known.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyEmergency, UrgencySoon, UrgencyFlexible:
		return true
	default:
		return false
	}
}

// RuleKey returns the urgency multiplier rule key.
func (u Urgency) RuleKey() string { return "urgency_" + string(u) }

// Issue is the closed set of detected roof issues.
type Issue string

const (
	IssueLeak            Issue = "leak"
	IssueStormDamage     Issue = "storm_damage"
	IssueMissingShingles Issue = "missing_shingles"
	IssueSagging         Issue = "sagging"
	IssueMold            Issue = "mold"
)

// Valid checks if the issue is known.
func (i Issue) Valid() bool {
	switch i {
	case IssueLeak, IssueStormDamage, IssueMissingShingles, IssueSagging, IssueMold:
		return true
	default:
		return false
	}
}

// RuleKey returns the issue flat-fee rule key.
func (i Issue) RuleKey() string { return "issue_" + string(i) }

// StoryRuleKey maps a story count to its multiplier rule key. Buildings of
// three or more stories share the "3" rule.
func StoryRuleKey(stories int) string {
	if stories > 3 {
		stories = 3
	}
	return fmt.Sprintf("story_%d", stories)
}

// Feature flags collected by the funnel and their flat-fee rule keys.
const (
	FeatureSkylightsRuleKey   = "feature_skylights"
	FeatureChimneysRuleKey    = "feature_chimneys"
	FeatureSolarPanelsRuleKey = "feature_solar_panels"
)
