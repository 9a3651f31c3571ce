package placement

import "github.com/abhisek/stepquiz/internal/quiz"

// InsertElement places el into stepID at atIndex, clamped to [0, len].
func InsertElement(q quiz.Quiz, stepID string, el quiz.Element, atIndex int) (quiz.Quiz, error) {
	si := q.StepIndex(stepID)
	if si < 0 {
		return quiz.Quiz{}, unknownStep(stepID)
	}
	if !el.Type.Valid() {
		_, err := quiz.ParseElementType(string(el.Type))
		return quiz.Quiz{}, err
	}

	out := q.Clone()
	step := &out.Steps[si]
	step.Elements = insertAt(step.Elements, clamp(atIndex, len(step.Elements)), el.Clone())
	return commit(out, si)
}

// MoveElement moves elementID from fromStepID to toStepID at atIndex.
// When both steps are the same this is a reorder: atIndex is the element's
// final position, clamped to the step's bounds, and moving an element to its
// current index returns an equal quiz.
func MoveElement(q quiz.Quiz, elementID, fromStepID, toStepID string, atIndex int) (quiz.Quiz, error) {
	from := q.StepIndex(fromStepID)
	if from < 0 {
		return quiz.Quiz{}, unknownStep(fromStepID)
	}
	to := q.StepIndex(toStepID)
	if to < 0 {
		return quiz.Quiz{}, unknownStep(toStepID)
	}
	ei := q.Steps[from].ElementIndex(elementID)
	if ei < 0 {
		return quiz.Quiz{}, unknownElement(elementID, fromStepID)
	}

	out := q.Clone()
	if from == to {
		step := &out.Steps[from]
		target := clamp(atIndex, len(step.Elements)-1)
		if target != ei {
			step.Elements = moveWithin(step.Elements, ei, target)
		}
		return commit(out, from)
	}

	src := &out.Steps[from]
	el := src.Elements[ei]
	src.Elements = removeAt(src.Elements, ei)

	dst := &out.Steps[to]
	dst.Elements = insertAt(dst.Elements, clamp(atIndex, len(dst.Elements)), el)
	return commit(out, from, to)
}

// RemoveElement deletes elementID from its owning step. A step emptied this
// way is kept.
func RemoveElement(q quiz.Quiz, elementID string) (quiz.Quiz, error) {
	si, ei, ok := q.FindElement(elementID)
	if !ok {
		return quiz.Quiz{}, unknownElement(elementID, "")
	}

	out := q.Clone()
	step := &out.Steps[si]
	step.Elements = removeAt(step.Elements, ei)
	return commit(out, si)
}

// UpdateElement replaces the payload of elementID. The element type follows
// the new content; position and ownership are unchanged.
func UpdateElement(q quiz.Quiz, elementID string, content quiz.Content) (quiz.Quiz, error) {
	si, ei, ok := q.FindElement(elementID)
	if !ok {
		return quiz.Quiz{}, unknownElement(elementID, "")
	}
	if content == nil {
		return quiz.Quiz{}, quiz.NewError(quiz.ErrMalformedQuiz, "element content is required", nil,
			map[string]any{"id": elementID})
	}

	out := q.Clone()
	el := &out.Steps[si].Elements[ei]
	el.Type = content.ElementType()
	el.Content = content
	*el = el.Clone()
	return commit(out, si)
}
