// Package cli implements the command-line interface for raid-report.
//
// The cli package provides the Cobra-based command that locates a saved raid page,
// extracts the results table, lists members with no raid score, and posts the
// report to the configured webhook. It coordinates the config, storage, scraper,
// raid, report, notifier and metrics packages and maps their failures to operator
// messages and exit codes.
package cli
