// Package recorder queues audit records and writes them to storage from a
// single background goroutine.
package recorder
