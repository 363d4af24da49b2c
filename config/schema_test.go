package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/weave/config"
)

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	cfg := config.New()
	cfg.Variables["gold"] = config.VariableKind{Kind: config.Integer}
	cfg.Variables["met_hero"] = config.VariableKind{Kind: config.Bool}
	cfg.Variables["mood"] = config.VariableKind{Kind: config.Enum, Values: []string{"happy", "sad"}}
	cfg.Locales = []string{"en", "fr"}
	cfg.DefaultLocale = "en"

	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsEnumWithNoValues(t *testing.T) {
	cfg := config.New()
	cfg.Variables["mood"] = config.VariableKind{Kind: config.Enum}

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "enum")
}

func TestValidateRejectsDefaultLocaleNotInLocales(t *testing.T) {
	cfg := config.New()
	cfg.Locales = []string{"en"}
	cfg.DefaultLocale = "de"

	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "default_locale")
}
