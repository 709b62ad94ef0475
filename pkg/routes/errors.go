package routes

import "errors"

var (
	ErrEmptySource        = errors.New("routes: route source is empty")
	ErrInvalidSource      = errors.New("routes: route source is not a valid regular expression")
	ErrConflictingTargets = errors.New("routes: route has both localDir and destination")
	ErrReplaceWithoutDir  = errors.New("routes: replace requires localDir")
	ErrUnknownAuthType    = errors.New("routes: unknown authentication type")
	ErrUnknownMethod      = errors.New("routes: unknown authentication method")
	ErrUnsupportedFormat  = errors.New("routes: unsupported file format")
	ErrReadFailed         = errors.New("routes: failed to read file")
	ErrDecodeFailed       = errors.New("routes: failed to decode file")
)
