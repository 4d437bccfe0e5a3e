package entity

import "errors"

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrInvalidQuery    = errors.New("invalid query")
)
