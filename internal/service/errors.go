package service

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrMissingFile    = errors.New("required file missing")
	ErrEmptyMessage   = errors.New("message content is empty")
	ErrSelfMessage    = errors.New("cannot message yourself")
	ErrUnknownAlbum   = errors.New("album does not exist")
	ErrMissingSubject = errors.New("user id is required")
)
