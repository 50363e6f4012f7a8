package indicator

import (
	"testing"

	"github.com/matthewlshields/jx-42/internal/types"
	"github.com/matthewlshields/jx-42/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RegistryTestSuite struct {
	suite.Suite
	registry RuleRegistry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) SetupTest() {
	s.registry = NewRuleRegistry()
}

func (s *RegistryTestSuite) TestRegisterAndGet() {
	err := s.registry.RegisterRule(NewSMACrossover())
	s.Require().NoError(err)

	rule, err := s.registry.GetRule(types.IndicatorTypeSMACrossover)
	s.Require().NoError(err)
	s.Equal(types.IndicatorTypeSMACrossover, rule.Name())
}

func (s *RegistryTestSuite) TestRegisterDuplicate() {
	s.Require().NoError(s.registry.RegisterRule(NewSMACrossover()))

	err := s.registry.RegisterRule(NewSMACrossover())
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeIndicatorAlreadyExists))
}

func (s *RegistryTestSuite) TestGetUnknown() {
	_, err := s.registry.GetRule(types.IndicatorType("no_such_rule"))
	s.Require().Error(err)
	s.True(errors.HasCode(err, errors.ErrCodeIndicatorNotFound))
}

func (s *RegistryTestSuite) TestRemoveRule() {
	s.Require().NoError(s.registry.RegisterRule(NewBreakout()))
	s.Require().NoError(s.registry.RemoveRule(types.IndicatorTypeBreakout))

	_, err := s.registry.GetRule(types.IndicatorTypeBreakout)
	s.Error(err)

	err = s.registry.RemoveRule(types.IndicatorTypeBreakout)
	s.True(errors.HasCode(err, errors.ErrCodeIndicatorNotFound))
}

func (s *RegistryTestSuite) TestDefaultRegistry() {
	registry := NewDefaultRuleRegistry()

	names := registry.ListRules()
	s.Len(names, 4)

	for _, name := range []types.IndicatorType{
		types.IndicatorTypeSMACrossover,
		types.IndicatorTypeBreakout,
		types.IndicatorTypeSMACrossBelow,
		types.IndicatorTypeTrailingStop,
	} {
		_, err := registry.GetRule(name)
		s.NoError(err, "expected built-in rule %s", name)
	}
}
