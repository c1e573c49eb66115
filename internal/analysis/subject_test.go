package analysis

import (
	"testing"

	"github.com/Abhishek-bramhawale/PYQuer-server/internal/models"
)

func TestIsTechnicalBatch(t *testing.T) {
	cases := []struct {
		name     string
		subjects []string
		want     bool
	}{
		{"compiler design", []string{"Compiler Design"}, true},
		{"history", []string{"History"}, false},
		{"math upper case", []string{"MATH 101"}, true},
		{"math lower case", []string{"math 101"}, true},
		{"mixed batch", []string{"History", "Discrete Mathematics"}, true},
		{"automata", []string{"Automata and Formal Languages"}, true},
		{"empty", nil, false},
		{"abbreviation collision", []string{"cd-rom archival studies"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			papers := make([]models.ParsedPaper, 0, len(tc.subjects))
			for _, s := range tc.subjects {
				papers = append(papers, models.ParsedPaper{Subject: s})
			}
			if got := IsTechnicalBatch(papers); got != tc.want {
				t.Fatalf("IsTechnicalBatch(%v) = %v, want %v", tc.subjects, got, tc.want)
			}
		})
	}
}
