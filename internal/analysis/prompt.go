package analysis

import (
	"fmt"
	"strings"

	"github.com/Abhishek-bramhawale/PYQuer-server/internal/models"
)

const technicalNote = "Note: these papers are from a technical/math-heavy subject. Treat questions with the same formula, derivation or numerical method as repeated even when the surface wording or the given values differ.\n\n"

// AssemblePapers merges the papers' text into one numbered document. Labels
// are 1-based and follow input order; the same numbering is referenced by
// the prompt instructions, so it must never be re-sorted.
func AssemblePapers(papers []models.ParsedPaper) string {
	parts := make([]string, 0, len(papers))
	for i, p := range papers {
		parts = append(parts, fmt.Sprintf("Paper %d:\n%s", i+1, p.Text))
	}
	return strings.Join(parts, "\n\n")
}

// BuildPrompt renders the fixed six-section analysis template around the
// assembled papers text. Output is a pure function of its arguments.
func BuildPrompt(papersText string, technical bool) string {
	var b strings.Builder

	b.WriteString("You are given the full text of previous year question papers, labeled \"Paper 1\", \"Paper 2\" and so on. Analyze them and produce exactly the six sections below, in order.\n\n")
	b.WriteString("Strict formatting rules:\n")
	b.WriteString("- Refer to papers only as \"Paper N\" using the labels given. Never append a year or any other annotation to a paper reference.\n")
	b.WriteString("- Use markdown tables where a table is requested.\n")
	b.WriteString("- Do not add sections, preambles or closing remarks beyond the six sections.\n\n")

	if technical {
		b.WriteString(technicalNote)
	}

	b.WriteString("Section 1 - Repeated questions:\n")
	b.WriteString("A table with columns Question, Appears In, Times Repeated listing every question that occurs in more than one paper. Appears In lists papers as \"Paper N\" separated by commas. If no question repeats, write exactly: No repeated questions found.\n\n")

	b.WriteString("Section 2 - Repeated questions with differences:\n")
	b.WriteString("A table with columns Question, Appears In, Difference for questions that repeat with small changes (reworded, different values, reordered parts). If there are none, write exactly: No repeated questions with differences found.\n\n")

	b.WriteString("Section 3 - Questions requiring diagrams:\n")
	b.WriteString("A table with columns Question, Appears In for questions whose answer requires drawing a diagram, graph or figure. If there are none, write exactly: No questions requiring diagrams found.\n\n")

	b.WriteString("Section 4 - Remaining questions:\n")
	b.WriteString("List every question not already covered by sections 1-3, grouped by paper, always starting from Paper 1.\n\n")

	b.WriteString("Section 5 - Study recommendations:\n")
	b.WriteString("Short, concrete advice on which topics to prioritise based on how often they appear.\n\n")

	b.WriteString("Section 6 - Predictions:\n")
	b.WriteString("The questions or topics most likely to appear in the next exam, with a one-line justification each.\n\n")

	b.WriteString("The papers:\n\n")
	b.WriteString(papersText)

	return b.String()
}
