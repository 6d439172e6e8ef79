// Package engine holds the two state machines presentation code drives.
//
// SheetEngine owns one loaded answer sheet: every edit produces a new
// immutable snapshot, publishes it with freshly derived statistics and queues
// a write of that snapshot. ListEngine follows the stored collection as
// summaries and creates or deletes sheets.
//
// Both expose their state through replay-latest subscriptions, so any number
// of observers can attach at any time and immediately see the current value.
package engine
