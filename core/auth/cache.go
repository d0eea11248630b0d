package auth

import "errors"

// ErrNoSession is returned by Cache.Get when the slot is empty.
var ErrNoSession = errors.New("no stored session")

// Cache is durable single-slot storage for the serialized session, surviving
// process restarts. Implementations hold at most one slot; Set overwrites
// unconditionally and Clear is idempotent.
type Cache interface {
	Get() ([]byte, error)
	Set(data []byte) error
	Clear() error
}
