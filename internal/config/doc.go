// Package config loads, normalizes, and validates treerun
// configuration data.
//
// It supplies repository defaults, expands tilde paths, reads TOML
// files, and honours environment fallbacks such as TREERUN_LOG_DIR.
// Obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
