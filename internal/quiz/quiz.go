package quiz

import "github.com/google/uuid"

// Quiz is the definition authors edit and end users traverse.
// The order of Steps is authoritative for traversal.
type Quiz struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Steps       []Step `json:"steps"`
}

// Step is an ordered stage of a quiz. It exclusively owns its Elements.
type Step struct {
	ID       string    `json:"id"`
	Title    string    `json:"title,omitempty"`
	Elements []Element `json:"elements"`
}

// NewID returns a collision-resistant opaque id for quizzes, steps and elements.
func NewID() string {
	return uuid.NewString()
}

// New creates an empty quiz with a fresh id.
func New(title, description string) Quiz {
	return Quiz{
		ID:          NewID(),
		Title:       title,
		Description: description,
		Steps:       []Step{},
	}
}

// NewStep creates an empty step with a fresh id.
func NewStep(title string) Step {
	return Step{ID: NewID(), Title: title, Elements: []Element{}}
}

// Clone returns a deep copy of q.
func (q Quiz) Clone() Quiz {
	steps := make([]Step, len(q.Steps))
	for i, s := range q.Steps {
		steps[i] = s.Clone()
	}
	q.Steps = steps
	return q
}

// Clone returns a deep copy of s.
func (s Step) Clone() Step {
	elems := make([]Element, len(s.Elements))
	for i, e := range s.Elements {
		elems[i] = e.Clone()
	}
	s.Elements = elems
	return s
}

// Reindex re-derives Order and StepID of every element from its position.
func (s *Step) Reindex() {
	for i := range s.Elements {
		s.Elements[i].Order = i
		s.Elements[i].StepID = s.ID
	}
}

// ElementIndex returns the position of elementID in s, or -1.
func (s Step) ElementIndex(elementID string) int {
	for i, e := range s.Elements {
		if e.ID == elementID {
			return i
		}
	}
	return -1
}

// StepIndex returns the position of stepID in q, or -1.
func (q Quiz) StepIndex(stepID string) int {
	for i, s := range q.Steps {
		if s.ID == stepID {
			return i
		}
	}
	return -1
}

// Step returns the step with the given id.
func (q Quiz) Step(stepID string) (Step, bool) {
	if i := q.StepIndex(stepID); i >= 0 {
		return q.Steps[i], true
	}
	return Step{}, false
}

// StepIDs returns the step ids in traversal order.
func (q Quiz) StepIDs() []string {
	ids := make([]string, len(q.Steps))
	for i, s := range q.Steps {
		ids[i] = s.ID
	}
	return ids
}

// StepIndexByID builds the step-id index used to resolve Element.StepID and
// navigation targets. Duplicate ids keep their first position.
func (q Quiz) StepIndexByID() map[string]int {
	idx := make(map[string]int, len(q.Steps))
	for i, s := range q.Steps {
		if _, ok := idx[s.ID]; !ok {
			idx[s.ID] = i
		}
	}
	return idx
}

// FindElement locates elementID, searching steps in order. When the id occurs
// in more than one step the first owning step wins.
func (q Quiz) FindElement(elementID string) (stepIdx, elemIdx int, ok bool) {
	for si, s := range q.Steps {
		if ei := s.ElementIndex(elementID); ei >= 0 {
			return si, ei, true
		}
	}
	return -1, -1, false
}

// Element returns the element with the given id and the id of its owning step.
func (q Quiz) Element(elementID string) (Element, bool) {
	si, ei, ok := q.FindElement(elementID)
	if !ok {
		return Element{}, false
	}
	return q.Steps[si].Elements[ei], true
}

// ElementCount returns the number of elements across all steps.
func (q Quiz) ElementCount() int {
	n := 0
	for _, s := range q.Steps {
		n += len(s.Elements)
	}
	return n
}

// Normalize returns a copy of q with element order and back-references
// re-derived from position. Stored order values are never trusted.
func Normalize(q Quiz) Quiz {
	out := q.Clone()
	for i := range out.Steps {
		if out.Steps[i].Elements == nil {
			out.Steps[i].Elements = []Element{}
		}
		out.Steps[i].Reindex()
	}
	return out
}
