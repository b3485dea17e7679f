package audit_test

import (
	"testing"

	"github.com/archguard/archguard/internal/domain"
	"github.com/stretchr/testify/require"
)

// coreInfraRules mirrors the smallest useful rule set: core must not reach infrastructure.
func coreInfraRules(t *testing.T) *domain.RuleSet {
	t.Helper()
	rules, err := domain.NewRuleSet(domain.RulesConfig{
		Layers: []domain.Layer{
			{Name: "core", Identifiers: []string{"core"}, Forbidden: []string{"infrastructure"}},
			{Name: "infra", Identifiers: []string{"infrastructure"}},
		},
		MaxFileLines:        300,
		MaxIndentationLevel: 5,
		TestSuffixes:        []string{".test.ts"},
	})
	require.NoError(t, err)
	return rules
}
