// Package config loads and merges arklens configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (ARKLENS_FORMAT, ARKLENS_FAIL_ON, etc.)
//  3. Config file ($XDG_CONFIG_HOME/arklens/config.json)
//  4. Built-in defaults
//
// API tokens (GitLab, GitHub) come only from the environment and are never
// persisted to the config file.
//
// Use [Load] to obtain a merged [Config] and [SetField] to update a single
// key on a Config before saving it with [Save].
package config
