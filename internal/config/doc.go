// Package config loads marquee's runtime configuration.
//
// # Overview
//
// Settings come from four layers, highest priority first:
//
//  1. Command-line flags registered with RegisterFlags (only when changed)
//  2. MARQUEE_* environment variables (nested keys use underscores,
//     e.g. MARQUEE_LOG_LEVEL)
//  3. The TOML config file (~/.config/marquee/config.toml by default)
//  4. Built-in defaults
//
// LoadEnvFile can seed the environment from a .env file before Load runs;
// variables that are already set win over the file.
//
// # TOML Format
//
//	api_url = "http://localhost:3000/api/movies"
//	image_base_url = "https://image.tmdb.org/t/p/w500"
//	request_timeout = "10s"
//	rate_limit = 8
//
//	[log]
//	file = "~/.local/share/marquee/marquee.log"
//	level = "info"
//
// Every field is optional. Blank strings and non-positive numbers fall back
// to defaults, and tilde paths are expanded.
//
// # Error Handling
//
// A missing config file is not an error. A file that exists but cannot be
// parsed fails with a "parse config" error, as does a value of the wrong
// type (for example an unparsable duration).
package config
