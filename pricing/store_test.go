package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleStoreIndexing(t *testing.T) {
	store := NewRuleStore(DefaultRules())

	r, ok := store.Rule("material_metal")
	require.True(t, ok)
	assert.Equal(t, CategoryMaterial, r.Category)
	assert.True(t, decimal.NewFromFloat(2.2).Equal(r.Multiplier))

	_, ok = store.Rule("material_gold")
	assert.False(t, ok)
}

func TestRuleStoreFiltersInactive(t *testing.T) {
	rules := []Rule{
		multiplierRule("material_metal", CategoryMaterial, 2.2, "Metal"),
		{Key: "material_tile", Category: CategoryMaterial, Multiplier: decimal.NewFromFloat(2.5), Active: false, DisplayName: "Tile"},
	}
	store := NewRuleStore(rules)

	assert.Equal(t, 1, store.Len())
	_, ok := store.Rule("material_tile")
	assert.False(t, ok)
}

func TestRuleStoreLastWriteWins(t *testing.T) {
	rules := []Rule{
		multiplierRule("material_metal", CategoryMaterial, 2.0, "Metal"),
		multiplierRule("material_metal", CategoryMaterial, 2.4, "Metal v2"),
	}
	store := NewRuleStore(rules)

	r, ok := store.Rule("material_metal")
	require.True(t, ok)
	assert.True(t, decimal.NewFromFloat(2.4).Equal(r.Multiplier))
	assert.Equal(t, "Metal v2", r.DisplayName)

	// The grouped index keeps both entries in insertion order.
	assert.Len(t, store.InCategory(CategoryMaterial), 2)
}

func TestRuleStoreCategoryOrder(t *testing.T) {
	rules := []Rule{
		multiplierRule("pitch_steep", CategoryPitch, 1.25, "Steep"),
		multiplierRule("pitch_flat", CategoryPitch, 0.95, "Flat"),
		multiplierRule("pitch_low", CategoryPitch, 1.0, "Low"),
	}
	store := NewRuleStore(rules)

	got := store.InCategory(CategoryPitch)
	require.Len(t, got, 3)
	assert.Equal(t, "pitch_steep", got[0].Key)
	assert.Equal(t, "pitch_flat", got[1].Key)
	assert.Equal(t, "pitch_low", got[2].Key)
}

func TestRuleStoreRulesCopy(t *testing.T) {
	store := NewRuleStore(DefaultRules())

	rules := store.Rules()
	require.NotEmpty(t, rules)
	rules[0].Key = "mutated"

	fresh := store.Rules()
	assert.NotEqual(t, "mutated", fresh[0].Key)
}
