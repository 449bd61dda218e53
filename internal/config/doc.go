// Package config loads, normalizes, and validates driveshift configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and centralizes every knob the wizard and CLI
// need: state and log directories, the rsync binary, and the default exclude
// sets seeded into new transfer plans.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
