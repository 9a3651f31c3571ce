package navigation

import (
	"fmt"
	"strings"

	"github.com/abhisek/stepquiz/internal/quiz"
)

// IntentKind names a navigation request.
type IntentKind string

const (
	IntentNext     IntentKind = "next"
	IntentPrevious IntentKind = "previous"
	IntentSubmit   IntentKind = "submit"
	IntentStep     IntentKind = "step"
)

// Intent is a request to change the current step. StepID is only set for
// IntentStep.
type Intent struct {
	Kind   IntentKind `json:"kind"`
	StepID string     `json:"stepId,omitempty"`
}

func Next() Intent     { return Intent{Kind: IntentNext} }
func Previous() Intent { return Intent{Kind: IntentPrevious} }
func Submit() Intent   { return Intent{Kind: IntentSubmit} }

// GoTo jumps directly to stepID.
func GoTo(stepID string) Intent { return Intent{Kind: IntentStep, StepID: stepID} }

func (i Intent) String() string {
	if i.Kind == IntentStep {
		return fmt.Sprintf("step(%s)", i.StepID)
	}
	return string(i.Kind)
}

// IntentFromTarget maps a navigation button's target to the intent a click
// on it sends.
func IntentFromTarget(t quiz.NavigationTarget) (Intent, error) {
	switch t.Type {
	case quiz.TargetNext:
		return Next(), nil
	case quiz.TargetPrevious:
		return Previous(), nil
	case quiz.TargetSubmit:
		return Submit(), nil
	case quiz.TargetStep:
		return GoTo(t.StepID), nil
	default:
		return Intent{}, quiz.NewError(quiz.ErrMalformedQuiz,
			fmt.Sprintf("unknown navigation target type %q", t.Type), nil, nil)
	}
}

// ParseIntent reads the textual form produced by Intent.String.
func ParseIntent(s string) (Intent, error) {
	switch IntentKind(s) {
	case IntentNext:
		return Next(), nil
	case IntentPrevious:
		return Previous(), nil
	case IntentSubmit:
		return Submit(), nil
	}
	if id, ok := strings.CutPrefix(s, "step("); ok && strings.HasSuffix(id, ")") && len(id) > 1 {
		return GoTo(strings.TrimSuffix(id, ")")), nil
	}
	return Intent{}, quiz.NewError(quiz.ErrUnknownIntent,
		fmt.Sprintf("unknown navigation intent %q", s), nil,
		map[string]any{"intent": s})
}

// Target is the button target that sends i when clicked.
func (i Intent) Target() quiz.NavigationTarget {
	if i.Kind == IntentStep {
		return quiz.StepTarget(i.StepID)
	}
	return quiz.NavigationTarget{Type: quiz.TargetType(i.Kind)}
}
