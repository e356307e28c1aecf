package app

import "errors"

var (
	// ErrNoContainer is returned when no target container can be resolved.
	ErrNoContainer = errors.New("no container found")
	// ErrNoSpecfile is returned by compose commands when no spec is registered.
	ErrNoSpecfile = errors.New("no specfile registered")
	// ErrTagRequired is returned by tag-specific commands on profiles without the tag.
	ErrTagRequired = errors.New("command requires app tag")
)
