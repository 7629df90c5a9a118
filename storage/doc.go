// Package storage
// Author: momentics <momentics@gmail.com>
//
// Backing slot arrays for ring buffers: heap-allocated, borrowed from the
// caller, or recycled through a sync.Pool. All providers implement
// api.Storage and never grow after construction.
package storage
