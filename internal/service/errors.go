package service

import "errors"

// Sentinel errors mapped to HTTP statuses at the handler boundary.
var (
	ErrExamNotFound     = errors.New("exam not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrNotAssigned      = errors.New("you are not assigned to this exam")
	ErrSelfDelete       = errors.New("cannot delete yourself")
	ErrInvalidRole      = errors.New("invalid role")
	ErrMarksOutOfRange  = errors.New("obtained marks exceed the question's marks")
)
