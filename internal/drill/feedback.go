package drill

// Feedback is the category of the last message shown to the player.
type Feedback string

const (
	FeedbackNone         Feedback = ""
	FeedbackCorrect      Feedback = "correct"
	FeedbackIncorrect    Feedback = "incorrect"
	FeedbackInvalidInput Feedback = "invalid_input"
	FeedbackRestarted    Feedback = "restarted"
	FeedbackAdvanced     Feedback = "advanced"
	FeedbackWon          Feedback = "won"
)

// Message returns the default player-facing wording for the feedback.
func (f Feedback) Message() string {
	switch f {
	case FeedbackCorrect:
		return "Correct! Great job!"
	case FeedbackIncorrect:
		return "Not quite. Remember, addition is combining two numbers. Keep trying!"
	case FeedbackInvalidInput:
		return "Please enter a valid number."
	case FeedbackRestarted:
		return "Oh no! Your score went below 0. Restarting the level. Try again!"
	case FeedbackAdvanced:
		return "Great work! Moving on to the next level."
	case FeedbackWon:
		return "Congratulations! You have completed all levels and won the game!"
	default:
		return ""
	}
}

// Positive reports whether the feedback should be presented as good news.
func (f Feedback) Positive() bool {
	return f == FeedbackCorrect || f == FeedbackAdvanced || f == FeedbackWon
}
