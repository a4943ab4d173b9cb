package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Caches and loaders return these
// (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: key or entity does not exist in a store or cache
//   - ErrUnavailable: backing service or dataset is not available right now
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
