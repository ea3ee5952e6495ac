package main

import "errors"

// Sentinel errors for the failure modes a single invocation can hit.
// Callers wrap these with context via fmt.Errorf("...: %w", ...) so the
// CLI can still classify them with errors.Is.
var (
	// ErrDeviceNotFound is returned for a malformed or nonexistent device name.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrNoSuitableDevice is returned when the default-device heuristic
	// finds no backlight device in any priority tier.
	ErrNoSuitableDevice = errors.New("cannot find a suitable backlight device")

	// ErrInvalidValue is returned when a set/toggle expression does not
	// parse under any grammar branch.
	ErrInvalidValue = errors.New("invalid brightness value")

	// ErrUnknownQuery is returned for an unrecognized "get" argument.
	ErrUnknownQuery = errors.New("unknown query")
)
