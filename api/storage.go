// File: api/storage.go
// Author: momentics <momentics@gmail.com>
//
// Backing storage contract for ring buffers.

package api

// Storage owns a fixed-length array of item slots.
//
// The ring engine decides which slots hold items; storage only hands out
// ranges. A slot not holding an item contains the zero value of T.
type Storage[T any] interface {
	// Len returns the number of slots. It never changes and is at least 1.
	Len() int
	// Slice returns slots [from, to). Ranges outside [0, Len()) panic.
	Slice(from, to int) []T
}
