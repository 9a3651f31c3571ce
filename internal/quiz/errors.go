package quiz

import (
	stderrors "errors"
	"net/http"
	"strings"

	apperrors "github.com/goliatone/go-errors"
)

const (
	ErrCodeMalformedQuiz        = "QUIZ_MALFORMED"
	ErrCodeEmptyQuiz            = "QUIZ_EMPTY"
	ErrCodeUnknownStep          = "QUIZ_UNKNOWN_STEP"
	ErrCodeUnknownElement       = "QUIZ_UNKNOWN_ELEMENT"
	ErrCodeUnknownElementType   = "QUIZ_UNKNOWN_ELEMENT_TYPE"
	ErrCodeSelectionNotFound    = "EDITOR_SELECTION_NOT_FOUND"
	ErrCodeQuizAlreadyCompleted = "NAV_QUIZ_COMPLETED"
	ErrCodeQuizNotFound         = "QUIZ_NOT_FOUND"
	ErrCodeSessionNotFound      = "NAV_SESSION_NOT_FOUND"
	ErrCodeUnknownIntent        = "NAV_UNKNOWN_INTENT"
)

// Sentinel errors. Callers get a clone per occurrence via NewError so the
// sentinels themselves are never mutated.
var (
	ErrMalformedQuiz = apperrors.New("malformed quiz", apperrors.CategoryValidation).
				WithTextCode(ErrCodeMalformedQuiz)
	ErrEmptyQuiz = apperrors.New("quiz has no steps", apperrors.CategoryBadInput).
			WithTextCode(ErrCodeEmptyQuiz)
	ErrUnknownStep = apperrors.New("unknown step", apperrors.CategoryBadInput).
			WithTextCode(ErrCodeUnknownStep)
	ErrUnknownElement = apperrors.New("unknown element", apperrors.CategoryBadInput).
				WithTextCode(ErrCodeUnknownElement)
	ErrUnknownElementType = apperrors.New("unknown element type", apperrors.CategoryValidation).
				WithTextCode(ErrCodeUnknownElementType)
	ErrSelectionNotFound = apperrors.New("selection not found", apperrors.CategoryBadInput).
				WithTextCode(ErrCodeSelectionNotFound)
	ErrQuizAlreadyCompleted = apperrors.New("quiz already completed", apperrors.CategoryConflict).
				WithTextCode(ErrCodeQuizAlreadyCompleted)
	ErrQuizNotFound = apperrors.New("quiz not found", apperrors.CategoryBadInput).
			WithTextCode(ErrCodeQuizNotFound)
	ErrSessionNotFound = apperrors.New("navigation session not found", apperrors.CategoryBadInput).
				WithTextCode(ErrCodeSessionNotFound)
	ErrUnknownIntent = apperrors.New("unknown navigation intent", apperrors.CategoryBadInput).
				WithTextCode(ErrCodeUnknownIntent)
)

// NewError clones base and attaches the message, source and metadata.
// An "id" metadata key names the offending quiz, step or element id.
func NewError(base *apperrors.Error, message string, source error, metadata map[string]any) *apperrors.Error {
	if base == nil {
		base = ErrMalformedQuiz
	}
	err := base.Clone()
	if text := strings.TrimSpace(message); text != "" {
		err.Message = text
	}
	if source != nil {
		err.Source = source
	}
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}

// ErrorCode returns the text code of err, or "" for errors outside the taxonomy.
func ErrorCode(err error) string {
	var ge *apperrors.Error
	if stderrors.As(err, &ge) {
		return ge.TextCode
	}
	return ""
}

// OffendingID returns the id recorded on a taxonomy error, if any.
func OffendingID(err error) string {
	var ge *apperrors.Error
	if !stderrors.As(err, &ge) || ge.Metadata == nil {
		return ""
	}
	id, _ := ge.Metadata["id"].(string)
	return id
}

// HasCode reports whether err carries the given text code.
func HasCode(err error, code string) bool {
	return err != nil && ErrorCode(err) == code
}

func IsMalformed(err error) bool          { return HasCode(err, ErrCodeMalformedQuiz) }
func IsEmptyQuiz(err error) bool          { return HasCode(err, ErrCodeEmptyQuiz) }
func IsUnknownStep(err error) bool        { return HasCode(err, ErrCodeUnknownStep) }
func IsUnknownElement(err error) bool     { return HasCode(err, ErrCodeUnknownElement) }
func IsUnknownElementType(err error) bool { return HasCode(err, ErrCodeUnknownElementType) }
func IsSelectionNotFound(err error) bool  { return HasCode(err, ErrCodeSelectionNotFound) }
func IsAlreadyCompleted(err error) bool   { return HasCode(err, ErrCodeQuizAlreadyCompleted) }
func IsNotFound(err error) bool           { return HasCode(err, ErrCodeQuizNotFound) }
func IsSessionNotFound(err error) bool    { return HasCode(err, ErrCodeSessionNotFound) }
func IsUnknownIntent(err error) bool      { return HasCode(err, ErrCodeUnknownIntent) }

// PresentAsNotFound reports whether an end user should see "not found" for err.
// A quiz that fails to load, fails validation or has no steps is never
// rendered partially; the code stays distinguishable for logs and tooling.
func PresentAsNotFound(err error) bool {
	switch ErrorCode(err) {
	case ErrCodeQuizNotFound, ErrCodeMalformedQuiz, ErrCodeUnknownElementType, ErrCodeEmptyQuiz:
		return true
	}
	return false
}

// HTTPStatus maps taxonomy errors to the status an HTTP collaborator should use.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if PresentAsNotFound(err) {
		return http.StatusNotFound
	}
	switch ErrorCode(err) {
	case ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeUnknownStep, ErrCodeUnknownElement, ErrCodeSelectionNotFound, ErrCodeUnknownIntent:
		return http.StatusUnprocessableEntity
	case ErrCodeQuizAlreadyCompleted:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
