package dbg

// Prompter reads one line of operator input.
type Prompter interface {
	// ReadLine blocks until the operator submits a line. The seed is the
	// previously entered command; submitting an empty line returns the
	// seed so repeating a command is a single confirmation. ok is false
	// when input was cancelled (EOF, interrupt), which callers treat the
	// same as an empty continue.
	ReadLine(promptText, seed string) (line string, ok bool)
}
