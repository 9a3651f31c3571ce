package placement

import "github.com/abhisek/stepquiz/internal/quiz"

// InsertStep places step at atIndex, clamped to [0, len]. Step position is
// implicit in slice order.
func InsertStep(q quiz.Quiz, step quiz.Step, atIndex int) (quiz.Quiz, error) {
	out := q.Clone()
	s := step.Clone()
	out.Steps = insertAt(out.Steps, clamp(atIndex, len(out.Steps)), s)
	return commit(out, out.StepIndex(s.ID))
}

// MoveStep moves stepID to atIndex, clamped to the valid final positions.
func MoveStep(q quiz.Quiz, stepID string, atIndex int) (quiz.Quiz, error) {
	si := q.StepIndex(stepID)
	if si < 0 {
		return quiz.Quiz{}, unknownStep(stepID)
	}

	out := q.Clone()
	target := clamp(atIndex, len(out.Steps)-1)
	if target != si {
		out.Steps = moveWithin(out.Steps, si, target)
	}
	return commit(out)
}

// RemoveStep deletes stepID. Navigation buttons that targeted it are
// retargeted to "next" in the same operation so no dangling reference is left.
func RemoveStep(q quiz.Quiz, stepID string) (quiz.Quiz, error) {
	si := q.StepIndex(stepID)
	if si < 0 {
		return quiz.Quiz{}, unknownStep(stepID)
	}

	out := q.Clone()
	out.Steps = removeAt(out.Steps, si)
	retargetButtons(&out, stepID)
	return commit(out)
}

// RenameStep sets the authoring title of stepID.
func RenameStep(q quiz.Quiz, stepID, title string) (quiz.Quiz, error) {
	si := q.StepIndex(stepID)
	if si < 0 {
		return quiz.Quiz{}, unknownStep(stepID)
	}

	out := q.Clone()
	out.Steps[si].Title = title
	return commit(out)
}

// RetargetedButtons lists the ids of navigation buttons that point at stepID.
func RetargetedButtons(q quiz.Quiz, stepID string) []string {
	var ids []string
	for _, s := range q.Steps {
		for _, e := range s.Elements {
			if t, ok := e.Target(); ok && t.Type == quiz.TargetStep && t.StepID == stepID {
				ids = append(ids, e.ID)
			}
		}
	}
	return ids
}

func retargetButtons(q *quiz.Quiz, removedStepID string) {
	for si := range q.Steps {
		for ei := range q.Steps[si].Elements {
			el := &q.Steps[si].Elements[ei]
			switch c := el.Content.(type) {
			case quiz.NavigationButtonContent:
				if c.Target.Type == quiz.TargetStep && c.Target.StepID == removedStepID {
					c.Target = quiz.NextTarget()
					el.Content = c
				}
			case quiz.TextContent, quiz.MultipleChoiceContent:
			}
		}
	}
}
