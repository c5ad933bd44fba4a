// internal/form/errors.go
package form

import "errors"

// The expected fault classes of form interaction. Resolution failures
// (question, field or options genuinely absent) are never retried;
// interception is retried exactly once through the script-dispatch
// path before propagating.
var (
	// ErrQuestionNotFound means no locator strategy matched the label.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrInputFieldNotFound means the resolved container holds none of
	// the probed input types.
	ErrInputFieldNotFound = errors.New("input field not found")

	// ErrNoOptionsFound means the resolved container holds zero
	// radio-role controls.
	ErrNoOptionsFound = errors.New("no radio options found")

	// ErrClickIntercepted marks a click swallowed by an overlapping
	// element (tooltip, in-progress animation).
	ErrClickIntercepted = errors.New("click intercepted")

	// ErrNavigationTimeout marks the initial form container failing to
	// appear within the configured bound.
	ErrNavigationTimeout = errors.New("navigation timeout")
)
