// Package logging wraps log/slog with the helpers the wizard and CLI use.
//
// It provides attribute constructors, component loggers, and console/JSON
// handler construction from configuration. Obtain loggers through New or
// NewFromConfig so output format and level stay consistent across commands;
// tests should use NewNop to silence output.
package logging
