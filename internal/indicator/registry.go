package indicator

import (
	"sync"

	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/matthewlshields/jx-42/pkg/errors"
)

// RuleRegistry manages all available rule indicators.
type RuleRegistry interface {
	RegisterRule(rule Rule) error
	GetRule(name types.IndicatorType) (Rule, error)
	ListRules() []types.IndicatorType
	RemoveRule(name types.IndicatorType) error
}

// RuleRegistryV1 manages all available rule indicators.
type RuleRegistryV1 struct {
	rules map[types.IndicatorType]Rule
	mu    sync.RWMutex
}

// NewRuleRegistry creates a new rule registry.
func NewRuleRegistry() RuleRegistry {
	return &RuleRegistryV1{
		rules: make(map[types.IndicatorType]Rule),
		mu:    sync.RWMutex{},
	}
}

// NewDefaultRuleRegistry creates a registry with all built-in rules registered.
func NewDefaultRuleRegistry() RuleRegistry {
	registry := NewRuleRegistry()
	registry.RegisterRule(NewSMACrossover())
	registry.RegisterRule(NewBreakout())
	registry.RegisterRule(NewSMACrossBelow())
	registry.RegisterRule(NewTrailingStop())

	return registry
}

// RegisterRule adds a rule to the registry.
func (r *RuleRegistryV1) RegisterRule(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := rule.Name()
	if _, exists := r.rules[name]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "RegisterRule: rule with name %s already registered", name)
	}

	r.rules[name] = rule

	return nil
}

// GetRule retrieves a rule by name.
func (r *RuleRegistryV1) GetRule(name types.IndicatorType) (Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rule, exists := r.rules[name]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "GetRule: rule with name %s not found", name)
	}

	return rule, nil
}

// ListRules returns a list of all registered rule names.
func (r *RuleRegistryV1) ListRules() []types.IndicatorType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.IndicatorType, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}

	return names
}

// RemoveRule removes a rule from the registry.
func (r *RuleRegistryV1) RemoveRule(name types.IndicatorType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[name]; !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "RemoveRule: rule with name %s not found", name)
	}

	delete(r.rules, name)

	return nil
}
