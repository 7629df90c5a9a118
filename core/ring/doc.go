// File: core/ring/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package ring implements a fixed-capacity single-producer/single-consumer
// ring buffer without locks.
//
// The buffer keeps two monotonically increasing counters: read (items ever
// removed) and write (items ever inserted). Their wrapping difference is the
// occupied length; physical slot of logical position p is p mod capacity.
// Counters are never reduced modulo capacity, so full and empty never alias.
//
// The producer only stores write and the consumer only stores read. A side
// finishes touching its slots before storing its counter; the opposite side
// loads the counter before touching those slots. That store/load pair is the
// only synchronization in the package.
//
// Slots outside the occupied range hold the zero value of T. Every removal
// path writes the zero value back before publishing the new read counter.
//
// A buffer is used either directly (both sides on one goroutine, plus the
// overwrite operations which need both sides) or split once into a Producer
// and a Consumer that may live on different goroutines. Closing a handle is
// what the opposite handle observes as "closed".
package ring
