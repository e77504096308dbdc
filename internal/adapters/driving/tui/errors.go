package tui

import "errors"

// ErrMissingBrowser is returned when the corpus browser is not provided.
var ErrMissingBrowser = errors.New("tui: corpus browser is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
