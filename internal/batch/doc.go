// Package batch reviews a slice of a commit manifest, one commit at a
// time in manifest order.
//
// For each selected commit the reviewer lists the files that commit
// touched, filters them by extension, fetches each file's content as it
// existed at that commit, extracts features, and runs the rule engine.
// Each commit gets a markdown report and, when issues were found, an issue
// CSV; the run gets an aggregate summary and a master CSV stamped with a
// ULID run id. Failures isolate at the smallest useful scope: an
// unfetchable file skips that file, a failing commit skips that commit,
// and the run carries on.
package batch
