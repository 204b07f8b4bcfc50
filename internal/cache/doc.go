// Package cache persists hosted API responses between CLI invocations.
//
// It implements the httpcache backend used by the change-request clients:
// one file per entry under the user cache directory, named by the SHA-256
// hash of the request key. Entries are complete HTTP responses; reuse and
// revalidation follow the validators the hosting API returned, so a stale
// entry costs one conditional request instead of a full fetch.
//
// The default cache directory is $XDG_CACHE_HOME/arklens (or the
// OS-appropriate equivalent).
package cache
