// Package scoring turns a composed evaluation prompt into a numeric score.
// The model output is free text and is never trusted: callers extract the
// score leniently with ExtractScore.
package scoring

import (
	"context"
	"strconv"
	"strings"
)

// Scorer is the external scoring capability. Implementations return free text
// expected, but not guaranteed, to contain a numeric score.
type Scorer interface {
	Name() string
	Score(ctx context.Context, prompt string) (string, error)
	Close() error
}

// ExtractScore pulls a non-negative integer out of arbitrary model output by
// keeping only digit characters. Empty or unparseable input yields 0; scoring
// is never fatal to the workflow.
func ExtractScore(raw string) int {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}
