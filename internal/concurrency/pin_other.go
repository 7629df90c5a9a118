//go:build !linux

// File: internal/concurrency/pin_other.go
// Author: momentics <momentics@gmail.com>
//
// Pinning fallback for platforms without sched_setaffinity.

package concurrency

import "runtime"

// PinCurrentThread cannot bind a CPU here. The thread is left unlocked.
func PinCurrentThread(cpuID int) error {
	return ErrAffinityNotSupported
}

// UnpinCurrentThread releases the OS thread lock.
func UnpinCurrentThread() {
	runtime.UnlockOSThread()
}
