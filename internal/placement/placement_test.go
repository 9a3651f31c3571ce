package placement

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/stepquiz/internal/quiz"
)

func text(id string) quiz.Element {
	return quiz.Element{ID: id, Type: quiz.ElementText, Content: quiz.TextContent{Text: id}}
}

func button(id string, target quiz.NavigationTarget) quiz.Element {
	return quiz.Element{ID: id, Type: quiz.ElementNavigationButton,
		Content: quiz.NavigationButtonContent{Label: id, Target: target}}
}

func testQuiz() quiz.Quiz {
	return quiz.Normalize(quiz.Quiz{
		ID: "q",
		Steps: []quiz.Step{
			{ID: "s1", Elements: []quiz.Element{text("a"), text("b"), text("c")}},
			{ID: "s2", Elements: []quiz.Element{text("d"), button("jump", quiz.StepTarget("s3"))}},
			{ID: "s3", Elements: []quiz.Element{button("done", quiz.SubmitTarget())}},
		},
	})
}

func ids(s quiz.Step) []string {
	out := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		out[i] = e.ID
	}
	return out
}

func assertDense(t *testing.T, q quiz.Quiz) {
	t.Helper()
	for _, s := range q.Steps {
		for i, e := range s.Elements {
			assert.Equal(t, i, e.Order, "step %s element %s order", s.ID, e.ID)
			assert.Equal(t, s.ID, e.StepID, "step %s element %s back-reference", s.ID, e.ID)
		}
	}
}

func TestInsertElement_Positions(t *testing.T) {
	tests := []struct {
		name    string
		atIndex int
		want    []string
	}{
		{"front", 0, []string{"x", "a", "b", "c"}},
		{"middle", 2, []string{"a", "b", "x", "c"}},
		{"end", 3, []string{"a", "b", "c", "x"}},
		{"overshoot clamps to end", 4, []string{"a", "b", "c", "x"}},
		{"negative clamps to front", -3, []string{"x", "a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := testQuiz()
			got, err := InsertElement(q, "s1", text("x"), tt.atIndex)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got.Steps[0]))
			assertDense(t, got)
			assert.Equal(t, []string{"a", "b", "c"}, ids(q.Steps[0]), "input must not change")
		})
	}
}

func TestInsertElement_Errors(t *testing.T) {
	q := testQuiz()

	_, err := InsertElement(q, "nope", text("x"), 0)
	assert.True(t, quiz.IsUnknownStep(err), "got %v", err)

	_, err = InsertElement(q, "s1", quiz.Element{ID: "v", Type: "video"}, 0)
	assert.True(t, quiz.IsUnknownElementType(err), "got %v", err)

	_, err = InsertElement(q, "s1", text("a"), 0)
	assert.True(t, quiz.IsMalformed(err), "duplicate id in step, got %v", err)

	_, err = InsertElement(q, "s1", button("bad", quiz.StepTarget("ghost")), 0)
	assert.True(t, quiz.IsMalformed(err), "dangling target, got %v", err)
}

func TestMoveElement_Reorder(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		atIndex int
		want    []string
	}{
		{"first to last", "a", 2, []string{"b", "c", "a"}},
		{"last to first", "c", 0, []string{"c", "a", "b"}},
		{"middle down", "b", 2, []string{"a", "c", "b"}},
		{"overshoot by one", "a", 3, []string{"b", "c", "a"}},
		{"negative", "c", -1, []string{"c", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MoveElement(testQuiz(), tt.id, "s1", "s1", tt.atIndex)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got.Steps[0]))
			assertDense(t, got)
		})
	}
}

func TestMoveElement_ToOwnIndexIsIdempotent(t *testing.T) {
	q := testQuiz()
	for i, e := range q.Steps[0].Elements {
		got, err := MoveElement(q, e.ID, "s1", "s1", i)
		require.NoError(t, err)
		assert.Equal(t, q, got)
	}
}

func TestMoveElement_AcrossSteps(t *testing.T) {
	q := testQuiz()
	got, err := MoveElement(q, "b", "s1", "s2", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c"}, ids(got.Steps[0]))
	assert.Equal(t, []string{"d", "b", "jump"}, ids(got.Steps[1]))
	assertDense(t, got)

	moved := got.Steps[1].Elements[1]
	assert.Equal(t, "s2", moved.StepID)
	assert.Equal(t, 1, moved.Order)
}

func TestMoveElement_AcrossStepsClamps(t *testing.T) {
	got, err := MoveElement(testQuiz(), "a", "s1", "s3", 99)
	require.NoError(t, err)
	assert.Equal(t, []string{"done", "a"}, ids(got.Steps[2]))
}

func TestMoveElement_Errors(t *testing.T) {
	q := testQuiz()

	_, err := MoveElement(q, "a", "ghost", "s1", 0)
	assert.True(t, quiz.IsUnknownStep(err))

	_, err = MoveElement(q, "a", "s1", "ghost", 0)
	assert.True(t, quiz.IsUnknownStep(err))

	_, err = MoveElement(q, "d", "s1", "s2", 0)
	assert.True(t, quiz.IsUnknownElement(err), "element lives in s2, got %v", err)

	// d already exists in s2, so moving another "d" there collides.
	q.Steps[0].Elements[0] = text("d")
	_, err = MoveElement(quiz.Normalize(q), "d", "s1", "s2", 0)
	assert.True(t, quiz.IsMalformed(err))
}

func TestRemoveElement_KeepsEmptiedStep(t *testing.T) {
	q := testQuiz()
	got, err := RemoveElement(q, "done")
	require.NoError(t, err)

	require.Len(t, got.Steps, 3)
	assert.Empty(t, got.Steps[2].Elements)
	assert.Equal(t, "s3", got.Steps[2].ID)
}

func TestRemoveElement_Reindexes(t *testing.T) {
	got, err := RemoveElement(testQuiz(), "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, ids(got.Steps[0]))
	assertDense(t, got)

	_, err = RemoveElement(got, "a")
	assert.True(t, quiz.IsUnknownElement(err))
}

func TestUpdateElement(t *testing.T) {
	q := testQuiz()
	got, err := UpdateElement(q, "jump", quiz.NavigationButtonContent{Label: "Back", Target: quiz.PreviousTarget()})
	require.NoError(t, err)

	target, ok := got.Steps[1].Elements[1].Target()
	require.True(t, ok)
	assert.Equal(t, quiz.PreviousTarget(), target)

	got, err = UpdateElement(q, "a", quiz.MultipleChoiceContent{Question: "?", Options: []quiz.Choice{{ID: "y", Label: "Yes"}}})
	require.NoError(t, err)
	assert.Equal(t, quiz.ElementMultipleChoice, got.Steps[0].Elements[0].Type)

	_, err = UpdateElement(q, "jump", quiz.NavigationButtonContent{Target: quiz.StepTarget("ghost")})
	assert.True(t, quiz.IsMalformed(err))

	_, err = UpdateElement(q, "ghost", quiz.TextContent{})
	assert.True(t, quiz.IsUnknownElement(err))

	_, err = UpdateElement(q, "a", nil)
	assert.True(t, quiz.IsMalformed(err))
}

func TestInsertStep(t *testing.T) {
	q := testQuiz()
	got, err := InsertStep(q, quiz.Step{ID: "new"}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "new", "s2", "s3"}, got.StepIDs())
	assert.NotNil(t, got.Steps[1].Elements)

	got, err = InsertStep(q, quiz.Step{ID: "tail"}, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s3", "tail"}, got.StepIDs())

	_, err = InsertStep(q, quiz.Step{ID: "s2"}, 0)
	assert.True(t, quiz.IsMalformed(err))
}

func TestMoveStep(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		atIndex int
		want    []string
	}{
		{"to front", "s3", 0, []string{"s3", "s1", "s2"}},
		{"to back", "s1", 2, []string{"s2", "s3", "s1"}},
		{"overshoot", "s1", 3, []string{"s2", "s3", "s1"}},
		{"same place", "s2", 1, []string{"s1", "s2", "s3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MoveStep(testQuiz(), tt.id, tt.atIndex)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StepIDs())
		})
	}

	_, err := MoveStep(testQuiz(), "ghost", 0)
	assert.True(t, quiz.IsUnknownStep(err))
}

func TestRemoveStep_RetargetsButtons(t *testing.T) {
	q := testQuiz()
	require.Equal(t, []string{"jump"}, RetargetedButtons(q, "s3"))

	got, err := RemoveStep(q, "s3")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, got.StepIDs())

	target, ok := got.Steps[1].Elements[1].Target()
	require.True(t, ok)
	assert.Equal(t, quiz.NavigationTarget{Type: quiz.TargetNext}, target)
	assert.Empty(t, RetargetedButtons(got, "s3"))
	require.NoError(t, quiz.Validate(got))

	// The input still points at s3.
	target, _ = q.Steps[1].Elements[1].Target()
	assert.Equal(t, quiz.StepTarget("s3"), target)
}

func TestRemoveStep_Unknown(t *testing.T) {
	_, err := RemoveStep(testQuiz(), "ghost")
	assert.True(t, quiz.IsUnknownStep(err))
}

func TestRenameStep(t *testing.T) {
	got, err := RenameStep(testQuiz(), "s2", "Details")
	require.NoError(t, err)
	assert.Equal(t, "Details", got.Steps[1].Title)

	_, err = RenameStep(testQuiz(), "ghost", "x")
	assert.True(t, quiz.IsUnknownStep(err))
}

// Random operation sequences must always leave every step with dense order
// values and no dangling step targets.
func TestRandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	q := testQuiz()
	next := 0

	pickElement := func(q quiz.Quiz) (string, string, bool) {
		var owners, elems []string
		for _, s := range q.Steps {
			for _, e := range s.Elements {
				owners = append(owners, s.ID)
				elems = append(elems, e.ID)
			}
		}
		if len(elems) == 0 {
			return "", "", false
		}
		i := rng.Intn(len(elems))
		return elems[i], owners[i], true
	}

	for i := 0; i < 500; i++ {
		var got quiz.Quiz
		var err error
		switch rng.Intn(6) {
		case 0:
			if len(q.Steps) == 0 {
				continue
			}
			next++
			s := q.Steps[rng.Intn(len(q.Steps))]
			var el quiz.Element
			if rng.Intn(2) == 0 {
				el = text(fmt.Sprintf("t%d", next))
			} else {
				el = button(fmt.Sprintf("n%d", next), quiz.StepTarget(s.ID))
			}
			got, err = InsertElement(q, s.ID, el, rng.Intn(len(s.Elements)+3)-1)
		case 1:
			id, from, ok := pickElement(q)
			if !ok {
				continue
			}
			to := q.Steps[rng.Intn(len(q.Steps))].ID
			got, err = MoveElement(q, id, from, to, rng.Intn(6)-1)
		case 2:
			id, _, ok := pickElement(q)
			if !ok {
				continue
			}
			got, err = RemoveElement(q, id)
		case 3:
			next++
			got, err = InsertStep(q, quiz.Step{ID: fmt.Sprintf("step%d", next)}, rng.Intn(len(q.Steps)+2))
		case 4:
			if len(q.Steps) == 0 {
				continue
			}
			got, err = MoveStep(q, q.Steps[rng.Intn(len(q.Steps))].ID, rng.Intn(len(q.Steps)+1))
		case 5:
			if len(q.Steps) < 2 {
				continue
			}
			got, err = RemoveStep(q, q.Steps[rng.Intn(len(q.Steps))].ID)
		}
		if err != nil {
			// Collisions (same element id moved into a step that has it) are
			// legitimate rejections; the prior quiz is kept.
			require.True(t, quiz.IsMalformed(err), "op %d: %v", i, err)
			continue
		}
		require.NoError(t, quiz.Validate(got), "op %d", i)
		assertDense(t, got)
		q = got
	}
}
