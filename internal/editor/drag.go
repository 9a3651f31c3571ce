package editor

import (
	"fmt"

	apperrors "github.com/goliatone/go-errors"

	"github.com/abhisek/stepquiz/internal/quiz"
)

// ErrDragFinished is returned when a dropped or cancelled drag is reused.
var ErrDragFinished = apperrors.New("drag already finished", apperrors.CategoryConflict).
	WithTextCode("EDITOR_DRAG_FINISHED")

// DragKind is what a drag gesture carries.
type DragKind string

const (
	DragElement DragKind = "element"
	DragStep    DragKind = "step"
)

// Drag tracks one drag-and-drop gesture. Hover only records the pointer's
// drop target; the placement engine runs once, on Drop.
type Drag struct {
	store    *Store
	kind     DragKind
	id       string
	fromStep string

	toStep  string
	atIndex int
	hovered bool
	done    bool
}

// BeginElementDrag picks up elementID from its owning step.
func (s *Store) BeginElementDrag(elementID string) (*Drag, error) {
	q := s.Quiz()
	si, _, ok := q.FindElement(elementID)
	if !ok {
		return nil, quiz.NewError(quiz.ErrUnknownElement,
			fmt.Sprintf("element %q does not exist", elementID), nil,
			map[string]any{"id": elementID})
	}
	return &Drag{store: s, kind: DragElement, id: elementID, fromStep: q.Steps[si].ID}, nil
}

// BeginStepDrag picks up stepID.
func (s *Store) BeginStepDrag(stepID string) (*Drag, error) {
	if s.Quiz().StepIndex(stepID) < 0 {
		return nil, quiz.NewError(quiz.ErrUnknownStep,
			fmt.Sprintf("step %q does not exist", stepID), nil,
			map[string]any{"id": stepID})
	}
	return &Drag{store: s, kind: DragStep, id: stepID}, nil
}

func (d *Drag) Kind() DragKind { return d.kind }
func (d *Drag) ID() string     { return d.id }

// Hover records the current drop target. stepID is ignored for step drags.
func (d *Drag) Hover(stepID string, atIndex int) {
	if d.done {
		return
	}
	d.toStep = stepID
	d.atIndex = atIndex
	d.hovered = true
}

// Target returns the last hovered drop target.
func (d *Drag) Target() (stepID string, atIndex int, ok bool) {
	return d.toStep, d.atIndex, d.hovered
}

// Drop commits the gesture through the store. Dropping without ever
// hovering is a no-op.
func (d *Drag) Drop() error {
	if d.done {
		return ErrDragFinished.Clone()
	}
	d.done = true
	if !d.hovered {
		return nil
	}
	switch d.kind {
	case DragElement:
		return d.store.MoveElement(d.id, d.fromStep, d.toStep, d.atIndex)
	case DragStep:
		return d.store.MoveStep(d.id, d.atIndex)
	}
	return fmt.Errorf("unknown drag kind %q", d.kind)
}

// Cancel abandons the gesture without touching the draft.
func (d *Drag) Cancel() {
	d.done = true
}
