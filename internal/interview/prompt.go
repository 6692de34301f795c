package interview

import (
	"encoding/json"
	"fmt"
	"strings"

	"scorecard/internal/session"
)

// ComposeScorePrompt builds the evaluation prompt sent to the scorer. The
// criteria are embedded as a JSON array and the transcript as Q:/A: lines; an
// empty transcript is allowed (the scorer then judges on criteria alone).
func ComposeScorePrompt(variable string, criteria []string, qa []session.Answer) string {
	if criteria == nil {
		criteria = []string{}
	}
	criteriaJSON, _ := json.Marshal(criteria)

	lines := make([]string, 0, 2*len(qa))
	for _, pair := range qa {
		lines = append(lines, "Q: "+pair.Question, "A: "+pair.Answer)
	}

	var b strings.Builder
	b.WriteString("You are a project evaluator.\n")
	fmt.Fprintf(&b, "Criteria for %s: %s\n", variable, criteriaJSON)
	b.WriteString("User answers:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\nRespond with a single numeric score (0-100).")
	return b.String()
}
