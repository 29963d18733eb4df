package structured

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampCount(t *testing.T) {
	assert.Equal(t, DefaultCount, ClampCount(0))
	assert.Equal(t, 1, ClampCount(-3))
	assert.Equal(t, 7, ClampCount(7))
	assert.Equal(t, MaxCount, ClampCount(500))
}

func TestCoerceFlashcards(t *testing.T) {
	raw := "```json\n" + `{"cards":[
		{"question":" What is Go? ","answer":" A language "},
		{"question":"","answer":"orphan"},
		{"question":"What is Go?","answer":"duplicate"},
		{"question":"Who?","answer":"Gopher"},
		{"question":"Extra","answer":"cut"}
	]}` + "\n```"

	cards, err := CoerceFlashcards(raw, 2)
	require.NoError(t, err)
	assert.Equal(t, []FlashcardDraft{
		{Question: "What is Go?", Answer: "A language"},
		{Question: "Who?", Answer: "Gopher"},
	}, cards)
}

func TestCoerceFlashcardsEmpty(t *testing.T) {
	_, err := CoerceFlashcards(`{"cards":[{"question":" ","answer":"x"}]}`, 5)
	assert.ErrorIs(t, err, ErrEmptyResult)

	_, err = CoerceFlashcards(`not json`, 5)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyResult)
}

func TestCoerceQuizRemapsCorrectIndex(t *testing.T) {
	raw := `{"questions":[
		{"question":"Q1","options":["", "A", " ", "B"],"correct_index":3,"hint":"","explanation":" because "},
		{"question":"Q2","options":["A", "", "B"],"correct_index":1,"hint":"h","explanation":""},
		{"question":"Q3","options":["only"],"correct_index":0,"hint":"","explanation":""},
		{"question":"Q4","options":["A","B"],"correct_index":9,"hint":"","explanation":""}
	]}`

	qs, err := CoerceQuiz(raw, 10)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "Q1", qs[0].Question)
	assert.Equal(t, []string{"A", "B"}, qs[0].Options)
	assert.Equal(t, 1, qs[0].CorrectIndex)
	assert.Nil(t, qs[0].Hint)
	require.NotNil(t, qs[0].Explanation)
	assert.Equal(t, "because", *qs[0].Explanation)
}

func TestCoerceMindMap(t *testing.T) {
	raw := `{"title":"","root":{"topic":"Biology","children":[
		{"topic":"Cells","children":[{"topic":"Nucleus","children":[]}]},
		{"topic":"  ","children":[{"topic":"lost","children":[]}]}
	]}}`

	title, data, err := CoerceMindMap(raw)
	require.NoError(t, err)
	assert.Equal(t, "Biology", title)
	require.NotNil(t, data.NodeData)
	assert.Equal(t, "root", data.NodeData.Id)
	assert.True(t, data.NodeData.Root)
	require.Len(t, data.NodeData.Children, 1)
	assert.Equal(t, "Cells", data.NodeData.Children[0].Topic)
	assert.Equal(t, "Nucleus", data.NodeData.Children[0].Children[0].Topic)
	assert.JSONEq(t, "{}", string(data.LinkData))
}

func TestCoerceMindMapCutsDepth(t *testing.T) {
	raw := `{"title":"t","root":{"topic":"1","children":[{"topic":"2","children":[{"topic":"3","children":[{"topic":"4","children":[{"topic":"5"}]}]}]}]}}`
	_, data, err := CoerceMindMap(raw)
	require.NoError(t, err)
	n := data.NodeData
	depth := 1
	for len(n.Children) > 0 {
		n = n.Children[0]
		depth++
	}
	assert.Equal(t, MaxMindMapDepth, depth)
}

func TestSchemasAreValidJSON(t *testing.T) {
	for name, schema := range map[string]map[string]interface{}{
		"flashcards": FlashcardsSchema,
		"quiz":       QuizSchema,
		"mindmap":    MindMapSchema,
	} {
		_, err := json.Marshal(schema)
		assert.NoError(t, err, name)
		assert.Equal(t, false, schema["additionalProperties"], name)
	}
}
