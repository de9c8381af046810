package domain

import "errors"

// ErrFormNotFound is returned when a form id cannot be found in the store.
var ErrFormNotFound = errors.New("form not found")

// ErrQuestionNotFound is returned when a question id does not exist in the graph.
var ErrQuestionNotFound = errors.New("question not found")

// ErrSessionNotFound is returned when a session id has no persisted variables.
var ErrSessionNotFound = errors.New("session not found")

// ErrSecureModeDisabled is returned when single-question rendering is
// requested for a form that does not have secure mode enabled. Callers
// must fall back to whole-form rendering; the gateway never does so silently.
var ErrSecureModeDisabled = errors.New("secure mode not enabled for form")

// ErrConditionCountMismatch signals that the number of conditions stored
// during a save does not match the incoming rule set. It is a correctness
// violation and always rolls back the transaction.
var ErrConditionCountMismatch = errors.New("condition count mismatch after save")

// ErrInvalidConditionType is returned when constructing a condition with
// a test outside the closed enumeration.
var ErrInvalidConditionType = errors.New("invalid condition type")

// ErrInvalidActionType is returned when constructing a condition with an
// action outside the closed enumeration.
var ErrInvalidActionType = errors.New("invalid action type")

// ErrNavigationLoop is returned when a session exceeds its step budget,
// which indicates a goto cycle in the form graph.
var ErrNavigationLoop = errors.New("navigation step budget exceeded")
