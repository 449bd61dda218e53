// Package main hosts the driveshift CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces device enumeration, the interactive
// transfer wizard, plan inspection and validation, script emission, and the
// transfer history journal. It centralizes configuration resolution and logger
// setup so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
