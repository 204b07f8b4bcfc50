// Package ingest normalizes code changes from merge requests, pull
// requests, local diff files, and git revisions into one ordered list of
// file changes.
//
// Every source converges on []FileChange. Hosted APIs return only diff
// fragments, so their changes carry reconstructed new-side content; local
// diffs replay both sides. Change-request URLs are classified by shape:
// merge-request URLs resolve against the GitLab REST v4 changes endpoint,
// pull-request URLs against the GitHub list-files endpoint behind a
// caching, rate-limit-aware transport.
package ingest
