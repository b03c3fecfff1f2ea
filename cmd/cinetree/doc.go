// Package main hosts the cinetree CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into library
// operations: candidate identification, organize runs, mirror maintenance,
// conflict inspection, review-queue management, and configuration
// scaffolding. Configuration resolution, logging setup, and queue access
// are centralized in the shared command context so subcommands stay thin.
package main
