package quiz

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlQuiz = `
id: quiz-yaml
title: Funnel
steps:
  - id: intro
    elements:
      - id: hello
        type: text
        order: 5
        content:
          text: Hi there
      - id: go
        type: navigation-button
        content:
          label: Start
          target:
            type: step
            stepId: pick
  - id: pick
    elements:
      - id: q
        type: multiple-choice
        content:
          question: Favourite colour?
          options:
            - id: r
              label: Red
            - id: b
              label: Blue
`

func TestParse_YAML(t *testing.T) {
	q, err := Parse([]byte(yamlQuiz))
	require.NoError(t, err)

	assert.Equal(t, "quiz-yaml", q.ID)
	require.Len(t, q.Steps, 2)
	require.Len(t, q.Steps[0].Elements, 2)

	hello := q.Steps[0].Elements[0]
	assert.Equal(t, 0, hello.Order, "stored order must be re-derived")
	assert.Equal(t, "intro", hello.StepID)
	assert.Equal(t, TextContent{Text: "Hi there"}, hello.Content)

	target, ok := q.Steps[0].Elements[1].Target()
	require.True(t, ok)
	assert.Equal(t, StepTarget("pick"), target)

	mc, ok := q.Steps[1].Elements[0].Content.(MultipleChoiceContent)
	require.True(t, ok)
	assert.Len(t, mc.Options, 2)
}

func TestParse_JSONRoundTrip(t *testing.T) {
	q, err := Parse([]byte(yamlQuiz))
	require.NoError(t, err)

	raw, err := Marshal(q)
	require.NoError(t, err)

	again, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, q, again)
}

func TestMarshalYAML_Parses(t *testing.T) {
	q, err := Parse([]byte(yamlQuiz))
	require.NoError(t, err)

	out, err := MarshalYAML(q)
	require.NoError(t, err)

	again, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, q, again)
}

func TestParse_DanglingTargetIsMalformed(t *testing.T) {
	doc := `{"id":"q","steps":[{"id":"a","elements":[
		{"id":"btn","type":"navigation-button","content":{"label":"Go","target":{"type":"step","stepId":"ghost"}}}
	]}]}`

	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.True(t, IsMalformed(err), "got %v", err)
	assert.Equal(t, "btn", OffendingID(err))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestParse_UnknownElementType(t *testing.T) {
	doc := `{"id":"q","steps":[{"id":"a","elements":[{"id":"v","type":"video"}]}]}`

	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.True(t, IsUnknownElementType(err), "got %v", err)
	assert.Equal(t, "v", OffendingID(err))
}

func TestParse_SchemaFailures(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing steps", `{"id":"q"}`},
		{"empty id", `{"id":"","steps":[]}`},
		{"step without id", `{"id":"q","steps":[{"elements":[]}]}`},
		{"negative order", `{"id":"q","steps":[{"id":"a","elements":[{"id":"e","type":"text","order":-1}]}]}`},
		{"not an object", `[1,2,3]`},
		{"garbage", `{{{`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, IsMalformed(err), "got %v", err)
		})
	}
}

func TestParse_MissingContentUsesDefaults(t *testing.T) {
	doc := `{"id":"q","steps":[{"id":"a","elements":[{"id":"b","type":"navigation-button"}]}]}`

	q, err := Parse([]byte(doc))
	require.NoError(t, err)
	target, ok := q.Steps[0].Elements[0].Target()
	require.True(t, ok)
	assert.Equal(t, TargetNext, target.Type)
}

func TestErrorHelpers(t *testing.T) {
	err := NewError(ErrUnknownStep, "step x missing", nil, map[string]any{"id": "x"})

	assert.Equal(t, ErrCodeUnknownStep, ErrorCode(err))
	assert.Equal(t, "x", OffendingID(err))
	assert.True(t, IsUnknownStep(err))
	assert.False(t, PresentAsNotFound(err))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(err))

	// Sentinels are cloned, never mutated.
	assert.Equal(t, "unknown step", ErrUnknownStep.Message)

	empty := NewError(ErrEmptyQuiz, "", nil, nil)
	assert.True(t, PresentAsNotFound(empty))
	assert.Equal(t, http.StatusConflict, HTTPStatus(NewError(ErrQuizAlreadyCompleted, "", nil, nil)))
	assert.Equal(t, "", ErrorCode(nil))

	intent := NewError(ErrUnknownIntent, "", nil, nil)
	assert.False(t, IsMalformed(intent))
	assert.False(t, PresentAsNotFound(intent))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(intent))
}
