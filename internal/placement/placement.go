// Package placement computes new step and element orderings for insert,
// move, reorder and delete operations. Every function is pure: it returns a
// new validated Quiz and never mutates its input. On error the caller keeps
// its previously committed quiz.
package placement

import (
	"fmt"

	"github.com/abhisek/stepquiz/internal/quiz"
)

// clamp bounds i to [0, n].
func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// commit re-derives element order on every touched step and validates the
// result before handing it back.
func commit(q quiz.Quiz, touched ...int) (quiz.Quiz, error) {
	for _, i := range touched {
		q.Steps[i].Reindex()
	}
	if err := quiz.Validate(q); err != nil {
		return quiz.Quiz{}, err
	}
	return q, nil
}

func unknownStep(stepID string) error {
	return quiz.NewError(quiz.ErrUnknownStep,
		fmt.Sprintf("step %q does not exist", stepID),
		nil,
		map[string]any{"id": stepID})
}

func unknownElement(elementID, stepID string) error {
	msg := fmt.Sprintf("element %q does not exist", elementID)
	meta := map[string]any{"id": elementID}
	if stepID != "" {
		msg = fmt.Sprintf("element %q does not exist in step %q", elementID, stepID)
		meta["step_id"] = stepID
	}
	return quiz.NewError(quiz.ErrUnknownElement, msg, nil, meta)
}

// insertAt returns a fresh slice with v placed at i. i must be in [0, len(s)].
func insertAt[T any](s []T, i int, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	return append(out, s[i:]...)
}

// removeAt returns a fresh slice without the element at i.
func removeAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// moveWithin returns a fresh slice where the element at from now sits at to.
// Built in one pass so no intermediate state holds the element twice.
func moveWithin[T any](s []T, from, to int) []T {
	out := make([]T, len(s))
	moved := s[from]
	j := 0
	for i := range out {
		if i == to {
			out[i] = moved
			continue
		}
		if j == from {
			j++
		}
		out[i] = s[j]
		j++
	}
	return out
}
