// Package schedule provides cancellable timers for the engine.
//
// Every time-based behavior (chord-sequence reset, palette fetch debounce,
// keymap reload debounce) goes through a Scheduler so that it can be driven
// by a Manual clock in tests. Timer implements the "cancel previous, schedule
// new" pattern once; Debouncer builds a fixed-callback debounce on top of it.
package schedule
