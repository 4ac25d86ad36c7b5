package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

var (
	// NilContextError reports an attempt to store a nil resolution context.
	NilContextError = New("can't save nil resolution context")
	// EmptyBaseDirError reports that a resolution context was opened without a base directory.
	EmptyBaseDirError = New("base directory is required")
	// InvalidArgumentError reports a malformed command-line flag or argument.
	InvalidArgumentError = New("invalid argument")
)

// IsBadRequest reports whether the error is a bad request from the caller.
func IsBadRequest(e error) bool {
	return stderr.Is(e, NilContextError) ||
		stderr.Is(e, EmptyBaseDirError) ||
		stderr.Is(e, InvalidArgumentError)
}
