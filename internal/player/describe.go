package player

import "github.com/abhisek/stepquiz/internal/quiz"

// Describe turns a navigation or lookup error into a line fit for an end
// user. It returns "" for errors outside the quiz taxonomy.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case quiz.IsEmptyQuiz(err):
		return "This quiz has no steps yet."
	case quiz.IsNotFound(err):
		return "This quiz is no longer available."
	case quiz.IsSessionNotFound(err):
		return "This session no longer exists."
	case quiz.IsUnknownStep(err):
		return "That button leads to a step that no longer exists."
	case quiz.IsUnknownIntent(err):
		return "That action is not supported."
	case quiz.IsAlreadyCompleted(err):
		return "This quiz is already complete."
	case quiz.IsMalformed(err):
		return "This quiz is not configured correctly."
	}
	return ""
}
