package domain

import "errors"

// Fatal conditions. Any of these aborts a run before a file is audited.
var (
	ErrRulesNotFound  = errors.New("rules file not found")
	ErrInvalidRules   = errors.New("invalid rules")
	ErrUnknownLayer   = errors.New("unknown layer")
	ErrTargetNotFound = errors.New("target not found")
)

// ErrAuditFailed is returned by the CLI when a run's verdict fails the gate.
var ErrAuditFailed = errors.New("audit failed")
