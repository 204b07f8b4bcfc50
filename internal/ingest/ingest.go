package ingest

import (
	"context"
	"fmt"
)

// ChangeType classifies how a file changed.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeDeleted  ChangeType = "deleted"
)

// FileChange is one changed file in a normalized shape shared by every
// ingestion source. OldContent is filled only when the source carries the
// old side; hosted APIs do not.
//
// NewContent is replayed from a diff fragment, so it is dense while the
// real file keeps its unchanged regions. NewLines maps each line of
// NewContent (line i+1 is NewLines[i]) to its line number in the
// complete new-side file. A nil mapping means NewContent already is the
// complete file.
type FileChange struct {
	Path       string
	OldContent string
	NewContent string
	NewLines   []int
	ChangeType ChangeType
}

// TrueLine converts a 1-based line number in NewContent to the line
// number in the complete new-side file. Lines outside the mapping come
// back unchanged.
func (fc FileChange) TrueLine(line int) int {
	if fc.NewLines == nil || line < 1 || line > len(fc.NewLines) {
		return line
	}
	return fc.NewLines[line-1]
}

// StatusError reports a non-success response from a hosted review API.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("change request API returned status %d", e.Code)
}

// Tokens carries per-host API tokens. An empty token sends
// unauthenticated requests, which public projects accept.
type Tokens struct {
	GitLab string
	GitHub string
}

// FromChangeRequest fetches the changed files of a hosted change request.
// The URL shape selects the backend: merge-request URLs go to the GitLab
// changes endpoint, pull-request URLs to the GitHub files endpoint.
func FromChangeRequest(ctx context.Context, rawURL string, tokens Tokens) ([]FileChange, error) {
	ref, err := ParseChangeRequestURL(rawURL)
	if err != nil {
		return nil, err
	}
	switch ref.Kind {
	case KindGitLab:
		return NewGitLabClient(ref.Host, tokens.GitLab).FetchChanges(ctx, ref)
	case KindGitHub:
		cli, err := NewGitHubClient(ref.Host, tokens.GitHub)
		if err != nil {
			return nil, err
		}
		return cli.FetchFiles(ctx, ref)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
}
