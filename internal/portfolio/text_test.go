package portfolio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/archimatch/archimatch/internal/model"
)

func TestSynthesize(t *testing.T) {
	profile := &model.ArchitectProfile{
		DisplayName:    "Jane Doe",
		Style:          "modern",
		Specialization: "residential",
		Location:       "Lisbon",
		BudgetRange:    "mid-range",
		Bio:            "Ten years of family homes.",
	}
	got := Synthesize(profile, []string{"Award-winning loft conversion."})
	require.Equal(t,
		"Architect: Jane Doe\nStyle: modern\nSpecialization: residential\nLocation: Lisbon\nBudget: mid-range\nAbout: Ten years of family homes.\nAward-winning loft conversion.",
		got)
}

func TestSynthesizeSkipsEmptyFields(t *testing.T) {
	profile := &model.ArchitectProfile{Style: "brutalist"}
	require.Equal(t, "Style: brutalist", Synthesize(profile, []string{"  ", ""}))
}

func TestSynthesizeEmptyProfile(t *testing.T) {
	require.Equal(t, "", Synthesize(&model.ArchitectProfile{}, nil))
}

func TestExtractMarkdownText(t *testing.T) {
	src := []byte("# Portfolio\n\nModern **residential** work in _Lisbon_.\n\n- lofts\n- villas\n")
	got := ExtractMarkdownText(src)
	require.Contains(t, got, "Portfolio")
	require.Contains(t, got, "Modern residential work in Lisbon.")
	require.Contains(t, got, "lofts")
	require.NotContains(t, got, "**")
	require.NotContains(t, got, "#")
}

func TestExtractMarkdownTextPlain(t *testing.T) {
	require.Equal(t, "just plain text", ExtractMarkdownText([]byte("just plain text")))
	require.Equal(t, "", ExtractMarkdownText(nil))
}
