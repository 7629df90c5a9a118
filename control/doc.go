// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics, configuration control, and debug introspection for
// hioload-ring buffers.
//
// Provides concurrent-safe state handling primitives including:
//   - YAML configuration with validation and a reloadable key/value store
//   - A Prometheus collector sampling ring observers at scrape time
//   - State export, debug hooks, and probe registration
package control
