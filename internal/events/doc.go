// Package events provides the observation primitives used between storage
// and the engines.
//
// The primary components are:
// - ChangeEvent: reports a write to an answer sheet
// - EventHandler / EventEmitter: decouple the writer from whoever reacts to writes
// - Subject: a replay-latest broadcast value that presentation code subscribes to
package events
