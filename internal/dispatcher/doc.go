// Package dispatcher turns raw key presses into action executions.
//
// The dispatcher accumulates key presses into a chord sequence and matches it
// against every key sequence bound in an action registry. Single-chord
// keybindings are sequences of length one.
//
// # Matching
//
// On every key press:
//
//  1. The press is converted to a keybinding token and appended to the
//     current sequence
//  2. The sequence-reset timer is restarted
//  3. If a bound sequence equals the current sequence the action is
//     executed through the registry (subject to its precondition), the
//     sequence is reset and the press is reported as consumed
//  4. Otherwise, if the current sequence is a prefix of some bound sequence,
//     the press is consumed and the sequence stays live
//  5. Otherwise the sequence is reset and the press is not consumed
//
// A sequence that receives no key press for Config.SequenceTimeout is
// abandoned.
//
// # Hooks
//
// Pre-dispatch hooks may veto an execution; post-dispatch hooks observe the
// result. Both run outside the dispatcher's lock.
//
// # Thread Safety
//
// Dispatcher is safe for concurrent use. Key presses are serialized against
// each other and against the reset timer.
package dispatcher
