// Package services implements the driving port interfaces.
// Services contain the core logic and orchestrate calls to driven ports
// (adapters).
//
// The Browser is the incremental search controller: it normalises keystrokes,
// debounces them, and applies only the response of the latest request.
//
// Services are pure Go with no CGO or external dependencies.
package services
