// Package config loads, normalizes, and validates fridgectl configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the FRIDGE_API_BASE_URL
// environment fallback. The Config type centralizes every knob the CLI
// needs, so the backend base URL, cache directory, and notification
// settings are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
