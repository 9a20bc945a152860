package sentinel

import "errors"

// Store errors. Stores return these (optionally wrapped) so services translate
// them into domain errors exactly once.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnavailable   = errors.New("unavailable")
)
