package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const questionsFixture = `{
  "questions": [
    {"variable": "Project_Name", "question": "What is the project called?"},
    {"variable": "Impact", "question": "What impact will it have?"},
    {"variable": "Effort", "question": ""}
  ]
}`

const criteriaFixture = `{
  "criteria": [
    {"variable": "Impact", "criteria": ["reaches many users", "clear metric"]},
    {"variable": "Effort", "criteria": ["under one quarter"]}
  ]
}`

func TestLoad(t *testing.T) {
	qp := writeFixture(t, "questions.json", questionsFixture)
	cp := writeFixture(t, "criteria.json", criteriaFixture)

	cat, err := Load(qp, cp)
	require.NoError(t, err)

	require.Equal(t, []string{"Project_Name", "Impact", "Effort"}, cat.Variables())
	require.Equal(t, 3, cat.Len())

	q, ok := cat.Question("Impact")
	require.True(t, ok)
	require.Equal(t, "What impact will it have?", q)

	require.Equal(t, []string{"reaches many users", "clear metric"}, cat.Criteria("Impact"))
	require.Empty(t, cat.Criteria("Project_Name"))
}

func TestLoadEmptyQuestionNotOk(t *testing.T) {
	qp := writeFixture(t, "questions.json", questionsFixture)
	cp := writeFixture(t, "criteria.json", criteriaFixture)

	cat, err := Load(qp, cp)
	require.NoError(t, err)

	// Effort is catalogued but its question text is empty, so the controller
	// must route it straight to scoring.
	_, ok := cat.Question("Effort")
	require.False(t, ok)
	require.Contains(t, cat.Variables(), "Effort")
}

func TestLoadMissingFilesReturnsUsableEmptyCatalog(t *testing.T) {
	dir := t.TempDir()
	cat, err := Load(filepath.Join(dir, "nope.json"), filepath.Join(dir, "also-nope.json"))
	require.Error(t, err)
	require.NotNil(t, cat)
	require.Empty(t, cat.Variables())
	_, ok := cat.Question("anything")
	require.False(t, ok)
	require.Empty(t, cat.Criteria("anything"))
}

func TestLoadCorruptQuestionsStillLoadsCriteria(t *testing.T) {
	qp := writeFixture(t, "questions.json", "{broken")
	cp := writeFixture(t, "criteria.json", criteriaFixture)

	cat, err := Load(qp, cp)
	require.Error(t, err)
	require.Empty(t, cat.Variables())
	require.Equal(t, []string{"under one quarter"}, cat.Criteria("Effort"))
}

func TestLoadDuplicateVariableKeepsFirst(t *testing.T) {
	qp := writeFixture(t, "questions.json", `{"questions":[
		{"variable":"Impact","question":"first?"},
		{"variable":"Impact","question":"second?"}
	]}`)
	cp := writeFixture(t, "criteria.json", `{"criteria":[]}`)

	cat, err := Load(qp, cp)
	require.NoError(t, err)
	require.Equal(t, []string{"Impact"}, cat.Variables())
	q, _ := cat.Question("Impact")
	require.Equal(t, "first?", q)
}

func TestFallbackQuestion(t *testing.T) {
	require.Equal(t, "What information do you have for Risk?", FallbackQuestion("Risk"))
}
