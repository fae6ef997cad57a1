package command

// helpText enumerates every operator command. Shown for "?" and "h".
const helpText = `Debugger commands:
  <Enter>, c, Continue   resume execution
  s, StepInto            step into the next statement
  v, StepOver            step over the next statement
  o, StepOut             step out of the current function
  q, Quit                abort the debugged program
  r                      show command history
  k                      show call stack (summary)
  K                      show call stack (detailed)
  k <n> [lines]          show source at stack frame n
  <n>                    show current location with n context lines
  +<n>                   same, and make n the default for future stops
  w                      open the transcript viewer
  ?, h                   this help
  anything else          evaluate as a host-language expression`
