// Package logging builds slog loggers for the CLI and pipeline.
//
// Two output formats are supported: a compact console format intended for
// interactive use and a JSON format for machine consumption. NewFromConfig
// additionally appends every record to lectern.log under the configured log
// directory so long synthesis runs leave an inspectable trail.
package logging
