// Package task manages background write scheduling.
// It provides a keyed queue that runs storage writes off the caller's
// goroutine while keeping the writes for one answer sheet strictly ordered,
// so an older snapshot can never overwrite a newer one.
package task
