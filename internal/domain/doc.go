// Package domain contains the answer sheet model: answers, per-question
// records, the sheet aggregate and its derived statistics, the plain-text
// export, and the codec for the persisted answers column.
//
// Sheets are treated as immutable snapshots. Every mutation returns a new
// AnswerSheet whose question slice is not shared with the receiver, so a
// snapshot handed to an observer or a storage write never changes under it.
package domain
