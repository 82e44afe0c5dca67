package service

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrNotModerator      = errors.New("user is not an approved moderator")
	ErrInvalidTransition = errors.New("invalid status transition")
)
