// File: blocking/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package blocking layers thread-blocking waits with timeouts over core/ring.
//
// Every wait is bounded by a deadline taken from a Clock when the operation
// starts. A TimeoutIterator turns that deadline into the sequence of
// remaining durations used for each retry. Bulk operations report progress
// as a count; a short count means the deadline passed or the opposite side
// closed.
package blocking
