package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested content does not exist,
	// remotely or on disk. Callers treat this as a normal outcome.
	ErrNotFound = errors.New("content not found")

	// ErrArchiveOffline indicates the archive is unreachable after the
	// client's retry budget was exhausted
	ErrArchiveOffline = errors.New("archive is unreachable")

	// ErrBadResponse indicates the archive returned a payload that could
	// not be parsed
	ErrBadResponse = errors.New("archive returned malformed data")

	// ErrStore indicates a durable-storage failure. Already-committed
	// records are unaffected.
	ErrStore = errors.New("song store failure")

	// ErrStoreClosed indicates an operation on a closed store
	ErrStoreClosed = errors.New("song store is closed")
)
