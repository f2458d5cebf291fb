package config

import (
	"github.com/SRINIVASINDIA/Local-guide/internal/compose"
	"github.com/SRINIVASINDIA/Local-guide/internal/knowledge"
)

// Rules converts the configured behavior rule names into composer rules.
func (c *Config) Rules() []compose.Rule {
	if len(c.BehaviorRules) == 0 {
		return compose.DefaultRules()
	}
	rules := make([]compose.Rule, 0, len(c.BehaviorRules))
	for _, r := range c.BehaviorRules {
		rules = append(rules, compose.Rule(r))
	}
	return rules
}

// Keywords converts the configured heading keywords, or nil when the
// defaults should apply.
func (c *Config) Keywords() *knowledge.HeadingKeywords {
	if c.HeadingKeywords == nil {
		return nil
	}
	return &knowledge.HeadingKeywords{
		Slang:   c.HeadingKeywords.Slang,
		Traffic: c.HeadingKeywords.Traffic,
		Food:    c.HeadingKeywords.Food,
	}
}
