package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	output string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.output, f.err
}

func TestExpandConcatenatesOriginalAndExpansion(t *testing.T) {
	gen := &fakeGenerator{output: "A modern family home with three bedrooms."}
	e := NewExpander(gen, 0)
	got, expanded := e.Expand(context.Background(), "modern 3-bedroom house")
	require.True(t, expanded)
	require.Equal(t, "modern 3-bedroom house\nA modern family home with three bedrooms.", got)
	require.Contains(t, gen.prompt, "modern 3-bedroom house")
}

func TestExpandFallsBackOnError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	e := NewExpander(gen, 0)
	got, expanded := e.Expand(context.Background(), "modern loft")
	require.False(t, expanded)
	require.Equal(t, "modern loft", got)
}

func TestExpandFallsBackOnEmptyOutput(t *testing.T) {
	gen := &fakeGenerator{output: "   "}
	e := NewExpander(gen, 0)
	got, expanded := e.Expand(context.Background(), "modern loft")
	require.False(t, expanded)
	require.Equal(t, "modern loft", got)
}

func TestExpandBlankQueryUsesFallbackPhrase(t *testing.T) {
	gen := &fakeGenerator{output: "Anything goes."}
	e := NewExpander(gen, 0)
	got, expanded := e.Expand(context.Background(), "   ")
	require.True(t, expanded)
	require.Equal(t, FallbackQuery+"\nAnything goes.", got)
	require.Contains(t, gen.prompt, FallbackQuery)
}

func TestExpandNilGenerator(t *testing.T) {
	var e *Expander
	got, expanded := e.Expand(context.Background(), "q")
	require.False(t, expanded)
	require.Equal(t, "q", got)
}
