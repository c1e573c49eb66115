package analysis

import (
	"strings"

	"github.com/Abhishek-bramhawale/PYQuer-server/internal/models"
)

// technicalKeywords are matched as case-insensitive substrings of a paper's
// declared subject. Coarse by design: short abbreviations like "cd" and
// "dm" can collide with unrelated subjects, a known limitation inherited
// from the original keyword list.
var technicalKeywords = []string{
	"mathematics",
	"math",
	"calculus",
	"algebra",
	"theory of computation",
	"toc",
	"discrete mathematics",
	"dm",
	"compiler design",
	"cd",
	"automata",
	"formal languages",
}

// IsTechnicalBatch reports whether any paper in the batch declares a
// technical or math-heavy subject.
func IsTechnicalBatch(papers []models.ParsedPaper) bool {
	for _, p := range papers {
		subject := strings.ToLower(p.Subject)
		for _, kw := range technicalKeywords {
			if strings.Contains(subject, kw) {
				return true
			}
		}
	}
	return false
}
