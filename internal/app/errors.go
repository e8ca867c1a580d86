package service

import "github.com/okian/pitchside/internal/domain/types"

// ErrNotFound marks an unknown competition, season, match or session.
var ErrNotFound = types.ErrNotFound
