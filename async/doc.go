// File: async/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package async layers wake-up based waiting over core/ring.
//
// Each direction of a split buffer carries one AtomicWaker slot. A waiter
// registers its waker, checks closure, then attempts the operation; the side
// that changes state wakes the opposite slot afterwards. Operations are
// expressed as futures polled with a Context; Await drives one future from
// the calling goroutine and Executor runs many of them on a worker pool.
package async
