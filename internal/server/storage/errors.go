package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this username already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrAssignmentNotFound indicates that assignment was not found
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrSubmissionNotFound indicates that submission was not found
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrSubmissionAlreadyExists indicates that the student already submitted
	// this assignment
	ErrSubmissionAlreadyExists = errors.New("submission already exists")
)
