//go:build linux

// File: internal/concurrency/pin_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux thread pinning through sched_setaffinity(2).

package concurrency

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// PinCurrentThread locks the calling goroutine to its OS thread and binds
// that thread to cpuID. Call UnpinCurrentThread on the same goroutine when done.
func PinCurrentThread(cpuID int) error {
	if cpuID < 0 || cpuID >= runtime.NumCPU() {
		return fmt.Errorf("pin: cpu %d outside [0, %d)", cpuID, runtime.NumCPU())
	}
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		runtime.UnlockOSThread()
		return fmt.Errorf("pin: sched_setaffinity cpu %d: %w", cpuID, err)
	}
	return nil
}

// UnpinCurrentThread releases the OS thread lock. The thread keeps its CPU mask.
func UnpinCurrentThread() {
	runtime.UnlockOSThread()
}
