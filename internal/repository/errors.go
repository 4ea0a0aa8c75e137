package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrInvalidID is returned when an id is not in the store's identifier format.
var ErrInvalidID = errors.New("invalid id")
