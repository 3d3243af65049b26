package repair

import "errors"

var (
	ErrConflict      = errors.New("repair: conflicting suggestions")
	ErrUnknownTarget = errors.New("repair: unknown target")
	ErrBadAction     = errors.New("repair: unsupported action")
	ErrBadValue      = errors.New("repair: value out of range")
	ErrAlreadyExists = errors.New("repair: element already exists")
)
