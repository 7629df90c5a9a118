// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Concurrency support for hioload-ring: the bounded lock-free run queue used
// by the async executor, and CPU pinning for dedicated producer/consumer
// threads.
package concurrency
