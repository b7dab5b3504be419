package apperrors

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrDuplicateDataset = errors.New("dataset with identical content already exists")
	ErrInvalidToken     = errors.New("invalid or expired token")
)
