// Package gitrepo shells out to git through an explicit repository handle.
//
// [Open] validates a path and returns a [Repo]; all further operations run
// as `git -C <dir>` subprocesses so nothing depends on the process working
// directory. [Repo.Collect] walks the log newest-first into [CommitInfo]
// rows, and the manifest functions persist those rows as RFC 4180 CSV for
// later batch review.
package gitrepo
