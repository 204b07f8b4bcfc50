package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// GitLabClient fetches merge-request changes over the REST v4 API.
type GitLabClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewGitLabClient builds a client for the given host. The token may be
// empty for public projects. Responses go through the same persistent
// cache as the GitHub client.
func NewGitLabClient(host, token string) *GitLabClient {
	return &GitLabClient{
		baseURL: "https://" + host,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second, Transport: hostTransport()},
	}
}

// NewGitLabClientWithBase builds a client against an explicit base URL,
// which lets tests point it at a local server.
func NewGitLabClientWithBase(baseURL, token string) *GitLabClient {
	return &GitLabClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// mrChange is one entry of the merge-request changes payload.
type mrChange struct {
	OldPath     string `json:"old_path"`
	NewPath     string `json:"new_path"`
	NewFile     bool   `json:"new_file"`
	RenamedFile bool   `json:"renamed_file"`
	DeletedFile bool   `json:"deleted_file"`
	Diff        string `json:"diff"`
}

type mrChangesResponse struct {
	Changes []mrChange `json:"changes"`
}

// FetchChanges calls the merge-request changes endpoint and replays each
// returned diff fragment into new-side content. The API carries only the
// fragment, so OldContent is left empty.
func (c *GitLabClient) FetchChanges(ctx context.Context, ref ChangeRequestRef) ([]FileChange, error) {
	endpoint := fmt.Sprintf("%s/api/v4/projects/%s/merge_requests/%d/changes",
		c.baseURL, url.PathEscape(ref.Project), ref.Number)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building merge request API request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("PRIVATE-TOKEN", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching merge request changes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var payload mrChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding merge request changes: %w", err)
	}

	changes := make([]FileChange, 0, len(payload.Changes))
	for _, ch := range payload.Changes {
		fc := FileChange{
			Path:       ch.NewPath,
			NewContent: ReplayNew(ch.Diff),
			NewLines:   NewLineNumbers(ch.Diff),
			ChangeType: ChangeModified,
		}
		switch {
		case ch.NewFile:
			fc.ChangeType = ChangeAdded
		case ch.DeletedFile:
			fc.ChangeType = ChangeDeleted
			fc.Path = ch.OldPath
		}
		changes = append(changes, fc)
	}
	return changes, nil
}
