// Package kv is the string-keyed persistence port behind the cart session
// store. Absent keys are reported as a nil value, not an error.
package kv

import "context"

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
