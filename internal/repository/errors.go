package repository

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("username already exists")

	// errNothingToUpdate aborts a file update without rewriting the file.
	errNothingToUpdate = errors.New("nothing to update")
)
