package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Abhishek-bramhawale/PYQuer-server/internal/models"
)

func threePapers() []models.ParsedPaper {
	return []models.ParsedPaper{
		{Text: "Q1 define stack", OriginalName: "2021.pdf"},
		{Text: "Q1 define queue", OriginalName: "2022.pdf"},
		{Text: "Q1 define tree", OriginalName: "2023.pdf"},
	}
}

func TestAssemblePapersPreservesOrder(t *testing.T) {
	text := AssemblePapers(threePapers())

	i1 := strings.Index(text, "Paper 1:")
	i2 := strings.Index(text, "Paper 2:")
	i3 := strings.Index(text, "Paper 3:")
	require.GreaterOrEqual(t, i1, 0)
	require.Greater(t, i2, i1)
	require.Greater(t, i3, i2)

	require.Contains(t, text, "Paper 1:\nQ1 define stack")
	require.Contains(t, text, "Paper 3:\nQ1 define tree")
}

func TestBuildPromptDeterministic(t *testing.T) {
	papers := threePapers()[:2]
	a := BuildPrompt(AssemblePapers(papers), true)
	b := BuildPrompt(AssemblePapers(papers), true)
	require.Equal(t, a, b)
}

func TestBuildPromptTechnicalNote(t *testing.T) {
	papersText := AssemblePapers(threePapers())

	with := BuildPrompt(papersText, true)
	without := BuildPrompt(papersText, false)
	require.Contains(t, with, "technical/math-heavy")
	require.NotContains(t, without, "technical/math-heavy")
}

func TestBuildPromptSectionsAndRules(t *testing.T) {
	prompt := BuildPrompt(AssemblePapers(threePapers()), false)

	for _, want := range []string{
		"Section 1 - Repeated questions:",
		"Section 2 - Repeated questions with differences:",
		"Section 3 - Questions requiring diagrams:",
		"Section 4 - Remaining questions:",
		"Section 5 - Study recommendations:",
		"Section 6 - Predictions:",
		"No repeated questions found.",
		"No repeated questions with differences found.",
		"No questions requiring diagrams found.",
		"always starting from Paper 1",
		"Never append a year",
	} {
		require.Contains(t, prompt, want)
	}

	// Papers text is interpolated at the end, after the instructions.
	require.True(t, strings.HasSuffix(prompt, AssemblePapers(threePapers())))
}
