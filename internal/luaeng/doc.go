// Package luaeng adapts a gopher-lua state to the debugger's engine,
// evaluator, and stack-introspection contracts.
//
// gopher-lua exposes no line hooks, so stops originate from an installed
// breakpoint() builtin: scripts call it at instrumented sites, and the
// adapter raises a stop event with the live call stack. A registered site
// list turns the builtin into conditional breakpoints; terminating script
// errors are intercepted by a protected-call message handler and surfaced as
// the fatal-error watch stop while the failing frames are still live.
//
// Step directives cannot be honored without line hooks; the adapter logs the
// limitation once and continues.
package luaeng
