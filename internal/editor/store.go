// Package editor holds an author's in-progress quiz draft and selection.
// Every command goes through the placement engine and replaces the draft as a
// whole; a failed command leaves the previously committed draft in place.
package editor

import (
	"fmt"
	"slices"
	"sync"

	"github.com/abhisek/stepquiz/internal/logging"
	"github.com/abhisek/stepquiz/internal/placement"
	"github.com/abhisek/stepquiz/internal/quiz"
)

// SelectionKind tells whether the selected id is a step or an element.
type SelectionKind string

const (
	SelectStep    SelectionKind = "step"
	SelectElement SelectionKind = "element"
)

// Selection is the editor's cursor.
type Selection struct {
	Kind SelectionKind
	ID   string
}

// Store is one editing session. The zero value is not usable; use New.
type Store struct {
	mu        sync.RWMutex
	draft     quiz.Quiz
	selection *Selection
	revision  int
	observers []func(quiz.Quiz)
	log       logging.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger committed commands are reported to.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = logging.Normalize(l) }
}

// New starts an editing session on a normalised copy of q.
func New(q quiz.Quiz, opts ...Option) (*Store, error) {
	draft := quiz.Normalize(q)
	if err := quiz.Validate(draft); err != nil {
		return nil, err
	}
	s := &Store{draft: draft, log: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithFields(map[string]any{"quiz_id": draft.ID})
	return s, nil
}

// Quiz returns a copy of the current draft.
func (s *Store) Quiz() quiz.Quiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft.Clone()
}

// Revision counts committed changes since New.
func (s *Store) Revision() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Selection returns the current cursor, if any.
func (s *Store) Selection() (Selection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selection == nil {
		return Selection{}, false
	}
	return *s.selection, true
}

// OnCommit registers fn to be called with every committed draft.
func (s *Store) OnCommit(fn func(quiz.Quiz)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Select points the cursor at a step or element id. Step ids win when an id
// names both.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.draft.StepIndex(id) >= 0:
		s.selection = &Selection{Kind: SelectStep, ID: id}
	case hasElement(s.draft, id):
		s.selection = &Selection{Kind: SelectElement, ID: id}
	default:
		return quiz.NewError(quiz.ErrSelectionNotFound,
			fmt.Sprintf("nothing with id %q to select", id), nil,
			map[string]any{"id": id})
	}
	return nil
}

// ClearSelection drops the cursor.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
}

// AddStep creates an empty step at atIndex and returns its id.
func (s *Store) AddStep(title string, atIndex int) (string, error) {
	step := quiz.NewStep(title)
	err := s.apply("add step", func(q quiz.Quiz) (quiz.Quiz, error) {
		return placement.InsertStep(q, step, atIndex)
	})
	if err != nil {
		return "", err
	}
	return step.ID, nil
}

func (s *Store) MoveStep(stepID string, atIndex int) error {
	return s.apply("move step", func(q quiz.Quiz) (quiz.Quiz, error) {
		return placement.MoveStep(q, stepID, atIndex)
	})
}

// RemoveStep deletes a step; buttons that targeted it fall back to "next".
func (s *Store) RemoveStep(stepID string) error {
	return s.apply("remove step", func(q quiz.Quiz) (quiz.Quiz, error) {
		return placement.RemoveStep(q, stepID)
	})
}

func (s *Store) RenameStep(stepID, title string) error {
	return s.apply("rename step", func(q quiz.Quiz) (quiz.Quiz, error) {
		return placement.RenameStep(q, stepID, title)
	})
}

// AddElement creates an element of type t with its default payload and
// returns the new id.
func (s *Store) AddElement(stepID string, t quiz.ElementType, atIndex int) (string, error) {
	el, err := quiz.NewElement(quiz.NewID(), t)
	if err != nil {
		return "", err
	}
	if err := s.InsertElement(stepID, el, atIndex); err != nil {
		return "", err
	}
	return el.ID, nil
}

func (s *Store) InsertElement(stepID string, el quiz.Element, atIndex int) error {
	return s.apply("insert element", func(q quiz.Quiz) (quiz.Quiz, error) {
		return placement.InsertElement(q, stepID, el, atIndex)
	})
}

func (s *Store) MoveElement(elementID, fromStepID, toStepID string, atIndex int) error {
	return s.apply("move element", func(q quiz.Quiz) (quiz.Quiz, error) {
		return placement.MoveElement(q, elementID, fromStepID, toStepID, atIndex)
	})
}

func (s *Store) RemoveElement(elementID string) error {
	return s.apply("remove element", func(q quiz.Quiz) (quiz.Quiz, error) {
		return placement.RemoveElement(q, elementID)
	})
}

func (s *Store) UpdateElement(elementID string, content quiz.Content) error {
	return s.apply("update element", func(q quiz.Quiz) (quiz.Quiz, error) {
		return placement.UpdateElement(q, elementID, content)
	})
}

// UpdateDetails sets the quiz title and description.
func (s *Store) UpdateDetails(title, description string) error {
	return s.apply("update details", func(q quiz.Quiz) (quiz.Quiz, error) {
		out := q.Clone()
		out.Title = title
		out.Description = description
		return out, quiz.Validate(out)
	})
}

// Replace swaps the whole draft, e.g. after reloading it from storage.
func (s *Store) Replace(q quiz.Quiz) error {
	return s.apply("replace", func(quiz.Quiz) (quiz.Quiz, error) {
		out := quiz.Normalize(q)
		return out, quiz.Validate(out)
	})
}

// apply runs fn against the current draft and commits its result. Observers
// are called after the lock is released.
func (s *Store) apply(name string, fn func(quiz.Quiz) (quiz.Quiz, error)) error {
	s.mu.Lock()
	next, err := fn(s.draft)
	if err != nil {
		s.mu.Unlock()
		s.log.Warn("%s rejected: %v", name, err)
		return err
	}
	s.draft = next
	s.revision++
	if s.selection != nil && !selectable(next, *s.selection) {
		s.log.Debug("selection %s cleared", s.selection.ID)
		s.selection = nil
	}
	rev := s.revision
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	s.log.Debug("%s committed at revision %d", name, rev)
	for _, fn := range observers {
		fn(next.Clone())
	}
	return nil
}

func selectable(q quiz.Quiz, sel Selection) bool {
	switch sel.Kind {
	case SelectStep:
		return q.StepIndex(sel.ID) >= 0
	case SelectElement:
		return hasElement(q, sel.ID)
	}
	return false
}

func hasElement(q quiz.Quiz, id string) bool {
	_, _, ok := q.FindElement(id)
	return ok
}
