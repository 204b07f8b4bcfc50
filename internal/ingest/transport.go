package ingest

import (
	"log/slog"
	"net/http"

	"github.com/gregjones/httpcache"

	"github.com/mingzhai/arklens/internal/cache"
)

// hostTransport builds the caching round tripper shared by the hosted API
// clients. Responses persist in the user cache directory, so conditional
// requests keep working across CLI invocations. An unusable cache
// directory degrades to an in-memory cache for the life of the process.
func hostTransport() http.RoundTripper {
	disk, err := cache.NewDisk("")
	if err != nil {
		slog.Debug("hosted API cache falling back to memory", "error", err)
		return httpcache.NewMemoryCacheTransport()
	}
	return httpcache.NewTransport(disk)
}
