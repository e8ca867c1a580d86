package repository

import "errors"

// ErrClosed is returned by lookups made after Close.
var ErrClosed = errors.New("cache closed")
