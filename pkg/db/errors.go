package db

import "errors"

// ErrConflict is returned by inserts that collide with an existing unique key
var ErrConflict = errors.New("record already exists")

// ErrNotFound is returned when a record addressed by id does not exist
var ErrNotFound = errors.New("record not found")
