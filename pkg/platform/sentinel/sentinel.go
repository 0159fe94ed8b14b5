package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and upstream clients return
// these (optionally wrapped) so services can translate them into domain errors.
//
// - ErrNotFound: nothing stored under the key
// - ErrExpired: the entry existed but outlived its TTL
// - ErrInvalidState: a stored entry cannot be decoded or is in the wrong state
// - ErrUnavailable: the backing service is not reachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
