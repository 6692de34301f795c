// Package interview implements the human-in-the-loop interview state machine:
// given a persisted session state, exactly one action applies per turn (advance,
// ask, record an answer, score, or finish), and every action returns a new
// well-formed state.
package interview

import (
	"context"
	"errors"
	"log"
	"strings"

	"scorecard/internal/catalog"
	"scorecard/internal/ledger"
	"scorecard/internal/scoring"
	"scorecard/internal/session"
)

// Action is the single step the dispatch rule selects for the current state.
type Action string

const (
	ActionAdvance      Action = "advance"
	ActionAskQuestion  Action = "ask_question"
	ActionRecordAnswer Action = "record_answer"
	ActionScore        Action = "score"
	ActionFinished     Action = "finished"
)

const unknownProject = "Unknown Project"

// Controller drives the interview. It holds no mutable state of its own; all
// session data lives in the session.State threaded through each action.
type Controller struct {
	catalog *catalog.Catalog
	scorer  scoring.Scorer
	ledger  ledger.Ledger
}

func New(cat *catalog.Catalog, scorer scoring.Scorer, led ledger.Ledger) *Controller {
	return &Controller{catalog: cat, scorer: scorer, ledger: led}
}

// Next applies the dispatch rule: exactly one action per turn, chosen from the
// stage and the terminal flag.
func (c *Controller) Next(st session.State) Action {
	if st.LoopFinished {
		return ActionFinished
	}
	switch st.Stage {
	case session.StageAwaitQuestion:
		return ActionAskQuestion
	case session.StageAwaitUser:
		return ActionRecordAnswer
	case session.StageAwaitScoring:
		return ActionScore
	default:
		return ActionAdvance
	}
}

// Advance moves to the next variable once the current stage is complete. On
// first call it seeds the queue from the catalog; an exhausted queue sets the
// terminal flag.
func (c *Controller) Advance(st session.State) session.State {
	if st.Stage != session.StageNone || st.LoopFinished {
		return st
	}
	st = st.Clone()

	if st.RemainingVariables == nil {
		st.RemainingVariables = c.catalog.Variables()
	}
	if len(st.RemainingVariables) == 0 {
		st.LoopFinished = true
		return st
	}

	cur := st.RemainingVariables[0]
	st.RemainingVariables = st.RemainingVariables[1:]
	st.CurrentVariable = cur
	if st.AskedQuestions == nil {
		st.AskedQuestions = map[string][]string{}
	}
	if st.Answers == nil {
		st.Answers = map[string][]session.Answer{}
	}
	st.AskedQuestions[cur] = []string{}
	st.Answers[cur] = []session.Answer{}

	q, ok := c.catalog.Question(cur)
	if !ok {
		q = catalog.FallbackQuestion(cur)
	}
	st.CurrentQuestion = &session.Question{Text: q}
	st.Stage = session.StageAwaitQuestion
	return st
}

// FetchQuestion looks up the question for the active variable, guarded against
// re-asking: an already-presented or missing question routes straight to
// scoring with a placeholder note.
func (c *Controller) FetchQuestion(st session.State) session.State {
	st = st.Clone()
	cur := st.CurrentVariable
	if cur == "" {
		// A stage that names no active variable is malformed; drop back to
		// idle so the next turn advances instead of spinning here.
		st.CurrentQuestion = &session.Question{Text: "Error: no active variable."}
		st.Stage = session.StageNone
		return st
	}

	q, ok := c.catalog.Question(cur)
	if !ok {
		st.Stage = session.StageAwaitScoring
		st.CurrentQuestion = &session.Question{Text: "No questions found for this variable."}
		return st
	}
	if st.Asked(cur, q) {
		st.Stage = session.StageAwaitScoring
		st.CurrentQuestion = &session.Question{Text: "All questions have been asked."}
		return st
	}

	st.CurrentQuestion = &session.Question{Text: q}
	st.Stage = session.StageAwaitUser
	return st
}

// RecordAnswer stores captured human input and moves to scoring. With no
// active variable or no pending question it is a no-op, tolerating late or
// duplicate calls. The reserved Project_Name variable only names the project
// and returns the loop to idle.
func (c *Controller) RecordAnswer(st session.State, answer string) session.State {
	cur := st.CurrentVariable
	q := st.PendingQuestionText()
	if cur == "" || q == "" {
		return st
	}
	st = st.Clone()
	ans := strings.TrimSpace(answer)

	if cur == session.ProjectNameVariable {
		st.ProjectName = ans
		st.Stage = session.StageNone
		return st
	}

	// Duplicate record calls for the same pending question must not double-book
	// the transcript; the first recorded answer wins.
	if !st.Asked(cur, q) {
		if st.Answers == nil {
			st.Answers = map[string][]session.Answer{}
		}
		if st.AskedQuestions == nil {
			st.AskedQuestions = map[string][]string{}
		}
		st.Answers[cur] = append(st.Answers[cur], session.Answer{Question: q, Answer: ans})
		st.AskedQuestions[cur] = append(st.AskedQuestions[cur], q)
		st.ReadyForScoring = append(st.ReadyForScoring, cur)
	}
	st.Stage = session.StageAwaitScoring
	return st
}

// BuildScorePrompt composes the evaluation prompt from the variable's criteria
// and collected Q/A pairs and caches it on the state for the scoring call.
func (c *Controller) BuildScorePrompt(st session.State) session.State {
	cur := st.CurrentVariable
	if cur == "" {
		return st
	}
	st = st.Clone()
	if st.ScorePrompts == nil {
		st.ScorePrompts = map[string]string{}
	}
	st.ScorePrompts[cur] = ComposeScorePrompt(cur, c.catalog.Criteria(cur), st.Answers[cur])
	return st
}

// SaveFinalScore parses the scorer's free-text output leniently, stores the
// score, and records it in the external ledger. A ledger failure is reported
// but the stage still clears so the workflow keeps advancing.
func (c *Controller) SaveFinalScore(ctx context.Context, st session.State, raw string) session.State {
	cur := st.CurrentVariable
	if cur == "" {
		return st
	}
	st = st.Clone()

	score := scoring.ExtractScore(raw)
	if st.Scores == nil {
		st.Scores = map[string]int{}
	}
	st.Scores[cur] = score
	log.Printf("%s: %d", cur, score)

	project := st.ProjectName
	if project == "" {
		project = unknownProject
	}
	if c.ledger != nil {
		if err := c.ledger.Record(ctx, project, cur, score); err != nil {
			log.Printf("ledger: record %s=%d for %q failed: %v", cur, score, project, err)
		}
	}

	st.Stage = session.StageNone
	return st
}

// Step executes exactly one action per the dispatch rule. humanInput is only
// consumed when the state is paused on the user. The returned error is
// non-nil only when the context was canceled mid-turn; no score is committed
// in that case, so the last saved state stays intact.
func (c *Controller) Step(ctx context.Context, st session.State, humanInput string) (session.State, error) {
	switch c.Next(st) {
	case ActionFinished:
		return st, nil
	case ActionAdvance:
		return c.Advance(st), nil
	case ActionAskQuestion:
		return c.FetchQuestion(st), nil
	case ActionRecordAnswer:
		return c.RecordAnswer(st, humanInput), nil
	case ActionScore:
		if st.CurrentVariable == "" {
			st = st.Clone()
			st.Stage = session.StageNone
			return st, nil
		}
		st = c.BuildScorePrompt(st)
		raw, err := c.scorer.Score(ctx, st.ScorePrompts[st.CurrentVariable])
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return st, err
			}
			// Malformed or failed scoring is never fatal; it degrades to 0.
			log.Printf("scoring %s failed, defaulting to 0: %v", st.CurrentVariable, err)
			raw = ""
		}
		return c.SaveFinalScore(ctx, st, raw), nil
	}
	return st, nil
}
