// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CorpusSearcher: The remote corpus search endpoint
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the core falls back to a default:
//
//   - ErrorReporter: Receives failed searches. Defaults to the verbose logger.
//   - Clock: Schedules debounce timers. Defaults to the system clock.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
