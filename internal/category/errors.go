package category

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrNameAlreadyUsed  = errors.New("category name already used")
	ErrInvalidInput     = errors.New("invalid category input")
)
