package errors_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/weave/errors"
)

func TestSuggestFindsCloseMatch(t *testing.T) {
	got := errors.Suggest("glod", []string{"gold", "silver", "reputation"})
	require.NotEmpty(t, got)
	require.Contains(t, got, "gold")
}

func TestSuggestReturnsNilWhenNothingClose(t *testing.T) {
	got := errors.Suggest("zzzzzzzzzz", []string{"gold", "silver"})
	require.Nil(t, got)
}

func TestSuggestCapsAtThree(t *testing.T) {
	got := errors.Suggest("forst", []string{"forest", "forests", "forested", "forestry", "forestland"})
	require.LessOrEqual(t, len(got), 3)
}
