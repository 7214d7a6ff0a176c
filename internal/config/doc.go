// Package config loads, normalizes, and validates lectern configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GOOGLE_TTS_API_KEY. The Config type centralizes every knob the CLI and
// pipeline need, so input/output directories, synthesis tuning, and audio
// mastering parameters are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical durations, and clear validation errors.
package config
