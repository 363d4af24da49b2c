package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPaletteDisabledByFlag(t *testing.T) {
	p := newPalette(true)
	require.False(t, p.enabled)
	require.Equal(t, "boom", p.errorText("boom"))
}

func TestNewPaletteDisabledByEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	p := newPalette(false)
	require.False(t, p.enabled)
}

func TestPaletteWrapPassthroughWhenDisabled(t *testing.T) {
	p := palette{enabled: false}
	require.Equal(t, "hello", p.wrap("hello", colorRed))
	require.Equal(t, "hello", p.errorText("hello"))
	require.Equal(t, "hello", p.choice("hello"))
	require.Equal(t, "hello", p.dim("hello"))
}

func TestPaletteWrapAddsAnsiWhenEnabled(t *testing.T) {
	p := palette{enabled: true}
	require.Equal(t, colorRed+"hello"+colorReset, p.errorText("hello"))
	require.Equal(t, colorYellow+"hello"+colorReset, p.choice("hello"))
	require.Equal(t, colorGray+"hello"+colorReset, p.dim("hello"))
}
