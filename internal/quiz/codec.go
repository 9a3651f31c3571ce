package quiz

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse decodes a quiz document in JSON or YAML, re-derives element order and
// validates the result. Anything that fails is a MalformedQuiz or
// UnknownElementType error; a parsed quiz is always safe to traverse.
func Parse(data []byte) (Quiz, error) {
	// yaml handles JSON too, so a single decode covers both formats.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Quiz{}, NewError(ErrMalformedQuiz, "quiz document could not be decoded", err, nil)
	}
	if doc == nil {
		return Quiz{}, NewError(ErrMalformedQuiz, "quiz document is empty", nil, nil)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return Quiz{}, NewError(ErrMalformedQuiz, "quiz document has non-string keys", err, nil)
	}
	return ParseJSON(raw)
}

// ParseJSON is Parse restricted to JSON input.
func ParseJSON(raw []byte) (Quiz, error) {
	if err := validateDocument(raw); err != nil {
		return Quiz{}, err
	}

	var q Quiz
	if err := json.Unmarshal(raw, &q); err != nil {
		if ErrorCode(err) != "" {
			return Quiz{}, err
		}
		return Quiz{}, NewError(ErrMalformedQuiz, "quiz document could not be decoded", err, nil)
	}

	q = Normalize(q)
	if err := Validate(q); err != nil {
		return Quiz{}, err
	}
	return q, nil
}

// Marshal encodes q as indented JSON.
func Marshal(q Quiz) ([]byte, error) {
	b, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal quiz: %w", err)
	}
	return b, nil
}

// MarshalYAML encodes q as YAML using the same field names as the JSON form.
func MarshalYAML(q Quiz) ([]byte, error) {
	b, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("marshal quiz: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("convert quiz: %w", err)
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal quiz yaml: %w", err)
	}
	return out, nil
}
