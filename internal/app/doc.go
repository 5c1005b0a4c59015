// Package app is marquee's composition root.
//
// Setup wires the pieces in order:
//
//  1. Load .env into the process environment (config.LoadEnvFile)
//  2. Load config.toml, MARQUEE_* overrides and flags (config.Load)
//  3. Open the rotating JSON log file (logging.New)
//  4. Build the catalog HTTP client with its rate limiter
//  5. Build the view controller around a fresh state.Store
//  6. Load UI preferences (theme)
//
// Run then hands the controller to the Bubble Tea UI and blocks until the
// user quits or the context is cancelled.
//
// # Error Handling
//
// Startup failures (malformed config, unopenable log file, bad API URL) are
// returned to main and printed to stderr. Once the UI is running, fetch
// failures never surface as errors: the controller logs and swallows them.
// Unreadable preferences are logged and replaced by defaults.
package app
