package service

import (
	"errors"

	"herelaw-backend/repository"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrFileNotFound       = errors.New("file not found")
	ErrAlreadyRated       = errors.New("session has already been rated")
	ErrUserExists         = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("account is inactive")
)

// notFound converts the repository sentinel into the service-level one
func notFound(err, target error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return err
}
