package storage

import "errors"

var (
	ErrUserExists      = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrTokenExists     = errors.New("token value already exists")
	ErrTokenNotFound   = errors.New("token not found")
	ErrTokenNotUsable  = errors.New("token expired or already consumed")
	ErrSessionNotFound = errors.New("session not found")
	ErrProjectNotFound = errors.New("project not found")
)
