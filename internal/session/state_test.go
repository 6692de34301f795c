package session

import (
	"encoding/json"
	"reflect"
	"testing"
)

func fullState() State {
	return State{
		RemainingVariables: []string{"Risk", "Cost"},
		CurrentVariable:    "Impact",
		CurrentQuestion:    &Question{Text: "What is the impact?"},
		AskedQuestions:     map[string][]string{"Impact": {"What is the impact?"}},
		Answers: map[string][]Answer{
			"Impact": {{Question: "What is the impact?", Answer: "Large"}},
		},
		ReadyForScoring: []string{"Impact"},
		Scores:          map[string]int{"Reach": 70},
		ScorePrompts:    map[string]string{"Reach": "prompt text"},
		ProjectName:     "Acme",
		Stage:           StageAwaitScoring,
		LoopFinished:    false,
	}
}

func TestStateRoundTrip(t *testing.T) {
	in := fullState()
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out State
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n in=%+v\nout=%+v", in, out)
	}
}

func TestStateJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(fullState())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal into map: %v", err)
	}
	for _, key := range []string{
		"remaining_variables", "current_variable", "current_question",
		"asked_questions", "answers", "ready_for_scoring", "scores",
		"score_prompts", "project_name", "hitl_stage", "loop_finished",
	} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("serialized state missing %q: %s", key, data)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := fullState()
	cp := orig.Clone()

	cp.RemainingVariables[0] = "changed"
	cp.AskedQuestions["Impact"][0] = "changed"
	cp.Answers["Impact"][0].Answer = "changed"
	cp.Scores["Reach"] = 1
	cp.ScorePrompts["Reach"] = "changed"
	cp.CurrentQuestion.Text = "changed"

	if orig.RemainingVariables[0] != "Risk" {
		t.Fatalf("clone aliased remaining_variables")
	}
	if orig.AskedQuestions["Impact"][0] != "What is the impact?" {
		t.Fatalf("clone aliased asked_questions")
	}
	if orig.Answers["Impact"][0].Answer != "Large" {
		t.Fatalf("clone aliased answers")
	}
	if orig.Scores["Reach"] != 70 {
		t.Fatalf("clone aliased scores")
	}
	if orig.ScorePrompts["Reach"] != "prompt text" {
		t.Fatalf("clone aliased score_prompts")
	}
	if orig.CurrentQuestion.Text != "What is the impact?" {
		t.Fatalf("clone aliased current_question")
	}
}

func TestClonePreservesExhaustedQueue(t *testing.T) {
	st := State{RemainingVariables: []string{}}
	if got := st.Clone().RemainingVariables; got == nil {
		t.Fatalf("clone turned exhausted queue into unseeded (nil)")
	}
	var unseeded State
	if got := unseeded.Clone().RemainingVariables; got != nil {
		t.Fatalf("clone invented a queue for unseeded state: %v", got)
	}
}

func TestNewSeedsCatalogOrder(t *testing.T) {
	st := New([]string{"Project_Name", "Impact"})
	if got := len(st.RemainingVariables); got != 2 {
		t.Fatalf("remaining = %d, want 2", got)
	}
	if st.Stage != StageNone {
		t.Fatalf("stage = %q, want none", st.Stage)
	}
	if st.LoopFinished {
		t.Fatalf("fresh state already finished")
	}
}

func TestAsked(t *testing.T) {
	st := fullState()
	if !st.Asked("Impact", "What is the impact?") {
		t.Fatalf("Asked() = false for recorded question")
	}
	if st.Asked("Impact", "Other question?") {
		t.Fatalf("Asked() = true for unseen question")
	}
	if st.Asked("Unknown", "What is the impact?") {
		t.Fatalf("Asked() = true for unknown variable")
	}
}
