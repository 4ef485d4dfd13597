package domain

import "fmt"

// Issue is one problem found by a full-pass validation.
type Issue struct {
	// Kind is one of the domain sentinel errors.
	Kind error

	// Path is the registry-relative file the issue was found in.
	Path string

	Message string
}

// Error renders "<path>: <message>".
func (i Issue) Error() string {
	if i.Path == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Unwrap exposes Kind so errors.Is matches the sentinel.
func (i Issue) Unwrap() error {
	return i.Kind
}

// Report accumulates issues in discovery order.
type Report struct {
	Issues []Issue
}

// Add records an issue.
func (r *Report) Add(kind error, path, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)})
}

// OK reports whether no issues were found.
func (r *Report) OK() bool {
	return len(r.Issues) == 0
}
