package session

import "strings"

// Stage identifies where the interview loop is paused between turns.
type Stage string

const (
	// StageNone means no action is in flight; the next turn advances the loop.
	StageNone Stage = ""
	// StageAwaitQuestion means a variable is active and its question must be fetched.
	StageAwaitQuestion Stage = "await_question"
	// StageAwaitUser means a question was displayed and the loop is blocked on human input.
	StageAwaitUser Stage = "await_user"
	// StageAwaitScoring means answers are collected and a score must be computed.
	StageAwaitScoring Stage = "await_scoring"
)

// ProjectNameVariable is the reserved pseudo-variable whose answer names the
// project. It never accumulates Q/A pairs and is never scored.
const ProjectNameVariable = "Project_Name"

// Question is the question currently pending display.
type Question struct {
	Text string `json:"text"`
}

// Answer is one recorded question/answer exchange for a variable.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// State is the single source of truth threaded through every interview turn.
// It is rewritten to disk in full after each turn.
//
// RemainingVariables distinguishes nil (never seeded from the catalog) from an
// empty non-nil slice (seeded and exhausted).
type State struct {
	RemainingVariables []string            `json:"remaining_variables"`
	CurrentVariable    string              `json:"current_variable,omitempty"`
	CurrentQuestion    *Question           `json:"current_question,omitempty"`
	AskedQuestions     map[string][]string `json:"asked_questions,omitempty"`
	Answers            map[string][]Answer `json:"answers,omitempty"`
	ReadyForScoring    []string            `json:"ready_for_scoring,omitempty"`
	Scores             map[string]int      `json:"scores,omitempty"`
	ScorePrompts       map[string]string   `json:"score_prompts,omitempty"`
	ProjectName        string              `json:"project_name,omitempty"`
	Stage              Stage               `json:"hitl_stage,omitempty"`
	LoopFinished       bool                `json:"loop_finished"`
}

// New returns a bootstrapped state: full catalog order queued, idle stage.
func New(variables []string) State {
	remaining := make([]string, len(variables))
	copy(remaining, variables)
	return State{
		RemainingVariables: remaining,
		AskedQuestions:     map[string][]string{},
		Answers:            map[string][]Answer{},
		Scores:             map[string]int{},
		ScorePrompts:       map[string]string{},
	}
}

// Clone deep-copies the state so controller actions never alias caller data.
func (s State) Clone() State {
	out := s
	if s.RemainingVariables != nil {
		// make, not append: an empty non-nil slice must stay non-nil, since
		// nil means "never seeded" and empty means "exhausted".
		out.RemainingVariables = make([]string, len(s.RemainingVariables))
		copy(out.RemainingVariables, s.RemainingVariables)
	}
	if s.CurrentQuestion != nil {
		q := *s.CurrentQuestion
		out.CurrentQuestion = &q
	}
	if s.AskedQuestions != nil {
		out.AskedQuestions = make(map[string][]string, len(s.AskedQuestions))
		for k, v := range s.AskedQuestions {
			out.AskedQuestions[k] = append([]string(nil), v...)
		}
	}
	if s.Answers != nil {
		out.Answers = make(map[string][]Answer, len(s.Answers))
		for k, v := range s.Answers {
			out.Answers[k] = append([]Answer(nil), v...)
		}
	}
	if s.ReadyForScoring != nil {
		out.ReadyForScoring = append([]string(nil), s.ReadyForScoring...)
	}
	if s.Scores != nil {
		out.Scores = make(map[string]int, len(s.Scores))
		for k, v := range s.Scores {
			out.Scores[k] = v
		}
	}
	if s.ScorePrompts != nil {
		out.ScorePrompts = make(map[string]string, len(s.ScorePrompts))
		for k, v := range s.ScorePrompts {
			out.ScorePrompts[k] = v
		}
	}
	return out
}

// Asked reports whether the question text was already presented for the variable.
func (s State) Asked(variable, question string) bool {
	for _, q := range s.AskedQuestions[variable] {
		if q == question {
			return true
		}
	}
	return false
}

// PendingQuestionText returns the text of the question awaiting an answer, if any.
func (s State) PendingQuestionText() string {
	if s.CurrentQuestion == nil {
		return ""
	}
	return strings.TrimSpace(s.CurrentQuestion.Text)
}
