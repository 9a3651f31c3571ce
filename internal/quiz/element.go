package quiz

import (
	"encoding/json"
	"fmt"
)

// ElementType identifies the variant of an Element.
type ElementType string

const (
	ElementText             ElementType = "text"
	ElementMultipleChoice   ElementType = "multiple-choice"
	ElementNavigationButton ElementType = "navigation-button"
)

// ElementTypes returns every supported element type in palette order.
func ElementTypes() []ElementType {
	return []ElementType{ElementText, ElementMultipleChoice, ElementNavigationButton}
}

// Valid reports whether t is one of the supported element types.
func (t ElementType) Valid() bool {
	switch t {
	case ElementText, ElementMultipleChoice, ElementNavigationButton:
		return true
	}
	return false
}

// ParseElementType converts s to an ElementType, rejecting unknown values.
func ParseElementType(s string) (ElementType, error) {
	t := ElementType(s)
	if !t.Valid() {
		return "", unknownElementType(s, "")
	}
	return t, nil
}

func unknownElementType(t, elementID string) error {
	meta := map[string]any{"type": t}
	if elementID != "" {
		meta["id"] = elementID
	}
	return NewError(ErrUnknownElementType, fmt.Sprintf("unknown element type %q", t), nil, meta)
}

// TargetType is the kind of a navigation-button target.
type TargetType string

const (
	TargetNext     TargetType = "next"
	TargetPrevious TargetType = "previous"
	TargetSubmit   TargetType = "submit"
	TargetStep     TargetType = "step"
)

// NavigationTarget is where a navigation button sends the user.
// StepID is set iff Type is TargetStep.
type NavigationTarget struct {
	Type   TargetType `json:"type"`
	StepID string     `json:"stepId,omitempty"`
}

func NextTarget() NavigationTarget     { return NavigationTarget{Type: TargetNext} }
func PreviousTarget() NavigationTarget { return NavigationTarget{Type: TargetPrevious} }
func SubmitTarget() NavigationTarget   { return NavigationTarget{Type: TargetSubmit} }

// StepTarget returns a target that jumps to stepID.
func StepTarget(stepID string) NavigationTarget {
	return NavigationTarget{Type: TargetStep, StepID: stepID}
}

// Content is the variant payload of an Element. The set of implementations is
// closed: TextContent, MultipleChoiceContent and NavigationButtonContent.
type Content interface {
	ElementType() ElementType
	cloneContent() Content
}

// TextContent is a static block of text.
type TextContent struct {
	Text string `json:"text"`
}

// Choice is a single option of a multiple-choice element.
type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// MultipleChoiceContent asks a question with a fixed set of options.
type MultipleChoiceContent struct {
	Question string   `json:"question"`
	Options  []Choice `json:"options"`
	Multiple bool     `json:"multiple,omitempty"`
}

// NavigationButtonContent is a button that emits a navigation intent.
type NavigationButtonContent struct {
	Label  string           `json:"label"`
	Target NavigationTarget `json:"target"`
}

func (TextContent) ElementType() ElementType             { return ElementText }
func (MultipleChoiceContent) ElementType() ElementType   { return ElementMultipleChoice }
func (NavigationButtonContent) ElementType() ElementType { return ElementNavigationButton }

func (c TextContent) cloneContent() Content { return c }

func (c MultipleChoiceContent) cloneContent() Content {
	if c.Options != nil {
		opts := make([]Choice, len(c.Options))
		copy(opts, c.Options)
		c.Options = opts
	}
	return c
}

func (c NavigationButtonContent) cloneContent() Content { return c }

// DefaultContent returns the payload a freshly dropped element of type t starts with.
func DefaultContent(t ElementType) (Content, error) {
	switch t {
	case ElementText:
		return TextContent{}, nil
	case ElementMultipleChoice:
		return MultipleChoiceContent{Options: []Choice{}}, nil
	case ElementNavigationButton:
		return NavigationButtonContent{Label: "Next", Target: NextTarget()}, nil
	default:
		return nil, unknownElementType(string(t), "")
	}
}

// Element is a single content or interaction unit inside a Step.
// StepID is a lookup key into the owning quiz, never an ownership link.
type Element struct {
	ID      string
	Type    ElementType
	StepID  string
	Order   int
	Content Content
}

// NewElement builds an element of type t with default content.
func NewElement(id string, t ElementType) (Element, error) {
	content, err := DefaultContent(t)
	if err != nil {
		return Element{}, err
	}
	return Element{ID: id, Type: t, Content: content}, nil
}

// NewElementWithContent builds an element whose type follows its content.
func NewElementWithContent(id string, content Content) (Element, error) {
	if content == nil {
		return Element{}, NewError(ErrMalformedQuiz, "element content is required", nil, map[string]any{"id": id})
	}
	return Element{ID: id, Type: content.ElementType(), Content: content}, nil
}

// Clone returns a deep copy of e.
func (e Element) Clone() Element {
	if e.Content != nil {
		e.Content = e.Content.cloneContent()
	}
	return e
}

// Target returns the navigation target of a navigation-button element.
func (e Element) Target() (NavigationTarget, bool) {
	btn, ok := e.Content.(NavigationButtonContent)
	if !ok {
		return NavigationTarget{}, false
	}
	return btn.Target, true
}

type elementWire struct {
	ID      string          `json:"id"`
	Type    ElementType     `json:"type"`
	StepID  string          `json:"stepId,omitempty"`
	Order   int             `json:"order"`
	Content json.RawMessage `json:"content,omitempty"`
}

// MarshalJSON encodes the element with its payload under "content".
func (e Element) MarshalJSON() ([]byte, error) {
	var raw json.RawMessage
	switch c := e.Content.(type) {
	case nil:
	case TextContent, MultipleChoiceContent, NavigationButtonContent:
		b, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("marshal %s content: %w", e.Type, err)
		}
		raw = b
	default:
		return nil, unknownElementType(string(c.ElementType()), e.ID)
	}
	return json.Marshal(elementWire{
		ID:      e.ID,
		Type:    e.Type,
		StepID:  e.StepID,
		Order:   e.Order,
		Content: raw,
	})
}

// UnmarshalJSON decodes the payload keyed by "type". Unknown types fail with
// UnknownElementType; a missing payload falls back to DefaultContent.
func (e *Element) UnmarshalJSON(data []byte) error {
	var w elementWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	var content Content
	switch w.Type {
	case ElementText:
		var c TextContent
		if err := decodeContent(w.Content, &c); err != nil {
			return malformedContent(w, err)
		}
		content = c
	case ElementMultipleChoice:
		var c MultipleChoiceContent
		if err := decodeContent(w.Content, &c); err != nil {
			return malformedContent(w, err)
		}
		if c.Options == nil {
			c.Options = []Choice{}
		}
		content = c
	case ElementNavigationButton:
		c := NavigationButtonContent{Label: "Next", Target: NextTarget()}
		if err := decodeContent(w.Content, &c); err != nil {
			return malformedContent(w, err)
		}
		content = c
	default:
		return unknownElementType(string(w.Type), w.ID)
	}

	*e = Element{
		ID:      w.ID,
		Type:    w.Type,
		StepID:  w.StepID,
		Order:   w.Order,
		Content: content,
	}
	return nil
}

func decodeContent(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func malformedContent(w elementWire, err error) error {
	return NewError(ErrMalformedQuiz,
		fmt.Sprintf("element %q has malformed %s content", w.ID, w.Type),
		err,
		map[string]any{"id": w.ID})
}
