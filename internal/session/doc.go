// Package session owns the debugger's process-wide state and the stop-event
// handler that drives the prompt loop.
//
// A Session is created once by Attach and lives for the rest of the process.
// It is shared by every stop, including stops raised while evaluating a
// command typed at a previous stop: the handler is re-entrant, and every
// piece of per-stop state lives in a loop value owned by one handler
// invocation.
package session
