package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError describes one invalid field. Path is dot-separated,
// with list indexes as path segments (e.g. "actions.1.chat_id").
type ValidationError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return e.Path + ": " + e.Reason
}

// ValidationErrors is the set of problems found in one payload.
type ValidationErrors []*ValidationError

func (es ValidationErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// AsValidation extracts the validation problems from err, if any.
func AsValidation(err error) (ValidationErrors, bool) {
	var es ValidationErrors
	if errors.As(err, &es) {
		return es, true
	}
	var e *ValidationError
	if errors.As(err, &e) {
		return ValidationErrors{e}, true
	}
	return nil, false
}

func (es ValidationErrors) under(prefix string) ValidationErrors {
	out := make(ValidationErrors, len(es))
	for i, e := range es {
		out[i] = &ValidationError{Path: joinPath(prefix, e.Path), Reason: e.Reason}
	}
	return out
}

func joinPath(prefix, name string) string {
	switch {
	case prefix == "":
		return name
	case name == "":
		return prefix
	}
	return prefix + "." + name
}

func unknownType(t ActionType, path string) *ValidationError {
	return &ValidationError{Path: path, Reason: fmt.Sprintf("unknown action type %q", t)}
}
