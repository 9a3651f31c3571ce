package quiz

import (
	"fmt"
	"strings"
)

// Validate checks the structural invariants of q. Every problem found is
// reported in a single MalformedQuiz error whose "id" metadata names the first
// offending id. Unknown element types fail fast with UnknownElementType.
func Validate(q Quiz) error {
	var problems []string
	var offending string
	report := func(id, format string, args ...any) {
		if offending == "" {
			offending = id
		}
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(q.ID) == "" {
		report(q.ID, "quiz id is empty")
	}

	stepIDs := make(map[string]bool, len(q.Steps))
	for i, s := range q.Steps {
		if strings.TrimSpace(s.ID) == "" {
			report(s.ID, "step %d has an empty id", i)
			continue
		}
		if stepIDs[s.ID] {
			report(s.ID, "duplicate step id %q", s.ID)
		}
		stepIDs[s.ID] = true
	}

	for _, s := range q.Steps {
		elemIDs := make(map[string]bool, len(s.Elements))
		for i, e := range s.Elements {
			if !e.Type.Valid() {
				return unknownElementType(string(e.Type), e.ID)
			}
			if strings.TrimSpace(e.ID) == "" {
				report(s.ID, "step %q element %d has an empty id", s.ID, i)
				continue
			}
			if elemIDs[e.ID] {
				report(e.ID, "duplicate element id %q in step %q", e.ID, s.ID)
			}
			elemIDs[e.ID] = true

			for _, p := range validateContent(e, stepIDs) {
				report(e.ID, "element %q: %s", e.ID, p)
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return NewError(ErrMalformedQuiz,
		fmt.Sprintf("quiz validation failed:\n  %s", strings.Join(problems, "\n  ")),
		nil,
		map[string]any{
			"id":       offending,
			"quiz_id":  q.ID,
			"problems": problems,
		})
}

func validateContent(e Element, stepIDs map[string]bool) []string {
	if e.Content == nil {
		return []string{"missing content"}
	}
	if e.Content.ElementType() != e.Type {
		return []string{fmt.Sprintf("content is %s but type is %s", e.Content.ElementType(), e.Type)}
	}

	switch c := e.Content.(type) {
	case TextContent:
		return nil
	case MultipleChoiceContent:
		var errs []string
		seen := make(map[string]bool, len(c.Options))
		for i, opt := range c.Options {
			if strings.TrimSpace(opt.ID) == "" {
				errs = append(errs, fmt.Sprintf("option %d has an empty id", i))
				continue
			}
			if seen[opt.ID] {
				errs = append(errs, fmt.Sprintf("duplicate option id %q", opt.ID))
			}
			seen[opt.ID] = true
		}
		return errs
	case NavigationButtonContent:
		return validateTarget(c.Target, stepIDs)
	default:
		return []string{fmt.Sprintf("unsupported content %T", c)}
	}
}

// ValidateTarget checks t against the steps of q.
func ValidateTarget(q Quiz, t NavigationTarget) error {
	stepIDs := make(map[string]bool, len(q.Steps))
	for _, s := range q.Steps {
		stepIDs[s.ID] = true
	}
	if errs := validateTarget(t, stepIDs); len(errs) > 0 {
		return NewError(ErrMalformedQuiz,
			"invalid navigation target: "+strings.Join(errs, "; "),
			nil,
			map[string]any{"id": t.StepID})
	}
	return nil
}

func validateTarget(t NavigationTarget, stepIDs map[string]bool) []string {
	switch t.Type {
	case TargetNext, TargetPrevious, TargetSubmit:
		if t.StepID != "" {
			return []string{fmt.Sprintf("target %s must not carry a step id (got %q)", t.Type, t.StepID)}
		}
		return nil
	case TargetStep:
		if t.StepID == "" {
			return []string{"step target is missing its step id"}
		}
		if !stepIDs[t.StepID] {
			return []string{fmt.Sprintf("target references nonexistent step %q", t.StepID)}
		}
		return nil
	default:
		return []string{fmt.Sprintf("unknown navigation target type %q", t.Type)}
	}
}
