// Package dbg defines the data model and collaborator contracts shared by
// the debugger console.
//
// The console core never talks to a concrete scripting engine. It consumes
// three narrow capabilities that a host supplies:
//
//   - Engine: delivers stop events and honors resume directives
//   - Evaluator: runs one line of host-language text and returns its output
//   - StackReader: reports the current call frames while stopped
//
// A StopEvent is owned by exactly one handler invocation for the duration of
// one prompt loop. Its resume directive is write-once; the engine inspects it
// after the handler returns and resumes (or terminates) accordingly.
package dbg
