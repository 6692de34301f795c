// Package catalog holds the immutable interview catalog: the ordered list of
// evaluation variables with their question texts and scoring criteria.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

type questionsDoc struct {
	Questions []struct {
		Variable string `json:"variable"`
		Question string `json:"question"`
	} `json:"questions"`
}

type criteriaDoc struct {
	Criteria []struct {
		Variable string   `json:"variable"`
		Criteria []string `json:"criteria"`
	} `json:"criteria"`
}

// Catalog is built once at startup and read-only thereafter. Variable order is
// the questions document order.
type Catalog struct {
	order     []string
	questions map[string]string
	criteria  map[string][]string
}

// Load reads the questions and criteria documents. On failure it returns both
// a usable empty catalog and the error, so the caller can report loudly and
// keep running degraded rather than crash downstream lookups.
func Load(questionsPath, criteriaPath string) (*Catalog, error) {
	c := &Catalog{
		questions: map[string]string{},
		criteria:  map[string][]string{},
	}
	var errs []error

	qdata, err := os.ReadFile(questionsPath)
	if err != nil {
		errs = append(errs, fmt.Errorf("catalog: read questions %s: %w", questionsPath, err))
	} else {
		var doc questionsDoc
		if err := json.Unmarshal(qdata, &doc); err != nil {
			errs = append(errs, fmt.Errorf("catalog: parse questions %s: %w", questionsPath, err))
		} else {
			for _, q := range doc.Questions {
				if q.Variable == "" {
					continue
				}
				if _, dup := c.questions[q.Variable]; dup {
					continue
				}
				c.order = append(c.order, q.Variable)
				c.questions[q.Variable] = q.Question
			}
		}
	}

	cdata, err := os.ReadFile(criteriaPath)
	if err != nil {
		errs = append(errs, fmt.Errorf("catalog: read criteria %s: %w", criteriaPath, err))
	} else {
		var doc criteriaDoc
		if err := json.Unmarshal(cdata, &doc); err != nil {
			errs = append(errs, fmt.Errorf("catalog: parse criteria %s: %w", criteriaPath, err))
		} else {
			for _, entry := range doc.Criteria {
				if entry.Variable == "" {
					continue
				}
				c.criteria[entry.Variable] = append([]string(nil), entry.Criteria...)
			}
		}
	}

	return c, errors.Join(errs...)
}

// Variables returns the variable identifiers in interview order.
func (c *Catalog) Variables() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Question returns the catalog question for a variable. A variable present in
// the order but with an empty question text reports ok=false, so the
// controller routes it straight to scoring.
func (c *Catalog) Question(variable string) (string, bool) {
	q, ok := c.questions[variable]
	if !ok || q == "" {
		return "", false
	}
	return q, true
}

// FallbackQuestion is the synthetic question used when a variable has no
// catalog question at the moment it becomes active.
func FallbackQuestion(variable string) string {
	return fmt.Sprintf("What information do you have for %s?", variable)
}

// Criteria returns the scoring rubric for a variable; empty when absent.
func (c *Catalog) Criteria(variable string) []string {
	return append([]string(nil), c.criteria[variable]...)
}

// Len reports the number of catalogued variables.
func (c *Catalog) Len() int { return len(c.order) }
