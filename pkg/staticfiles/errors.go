package staticfiles

import "errors"

var (
	ErrPathTraversal  = errors.New("staticfiles: path traversal")
	ErrFileNotFound   = errors.New("staticfiles: file not found")
	ErrTemplateRender = errors.New("staticfiles: template rendering failed")
	ErrServeFailed    = errors.New("staticfiles: failed to serve file")
)
