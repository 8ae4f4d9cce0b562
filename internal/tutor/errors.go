package tutor

import "errors"

// Intent rejections. None of them change state.
var (
	ErrBusy              = errors.New("a request is already in progress")
	ErrInvalidTransition = errors.New("action not allowed in the current state")
	ErrIncompleteAnswers = errors.New("answer every question before submitting")
	ErrAnswerRequired    = errors.New("answer this question before moving on")
	ErrLastQuestion      = errors.New("already at the last question")
	ErrFirstQuestion     = errors.New("already at the first question")
	ErrUnknownQuestion   = errors.New("unknown question")
	ErrUnknownMaterial   = errors.New("unknown material")
)
