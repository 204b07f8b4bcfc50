// Package cli wires together the Cobra command tree for the arklens binary.
//
// It defines the root command and all subcommands (review, collect, batch,
// config, cache, hook, version), binds flags, reads configuration, invokes
// the rule engine, and returns deterministic exit codes for CI gating.
package cli
