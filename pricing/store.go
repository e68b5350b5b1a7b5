package pricing

// RuleStore indexes an active rule set for O(1) lookup by key and grouped
// access by category. It is immutable after construction and safe for
// concurrent use by any number of calculations.
type RuleStore struct {
	byKey      map[string]Rule
	byCategory map[Category][]Rule
	rules      []Rule
}

// NewRuleStore filters the given rules to active ones and indexes them.
// Duplicate keys are resolved last-write-wins in the key index; the grouped
// index preserves insertion order.
func NewRuleStore(rules []Rule) *RuleStore {
	s := &RuleStore{
		byKey:      make(map[string]Rule, len(rules)),
		byCategory: make(map[Category][]Rule),
	}
	for _, r := range rules {
		if !r.Active {
			continue
		}
		s.byKey[r.Key] = r
		s.byCategory[r.Category] = append(s.byCategory[r.Category], r)
		s.rules = append(s.rules, r)
	}
	return s
}

// Rule looks up an active rule by exact key.
func (s *RuleStore) Rule(key string) (Rule, bool) {
	r, ok := s.byKey[key]
	return r, ok
}

// InCategory returns the active rules in a category, in insertion order.
func (s *RuleStore) InCategory(c Category) []Rule {
	return s.byCategory[c]
}

// Rules returns a copy of the active rule set in insertion order.
func (s *RuleStore) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Len reports the number of active rules.
func (s *RuleStore) Len() int {
	return len(s.rules)
}
