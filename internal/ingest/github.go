package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
)

// GitHubClient talks to the pull-request API via go-github behind a
// caching and rate-limit-aware transport:
//  1. httpcache over the disk cache (ETag conditional requests persist
//     across CLI runs)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
type GitHubClient struct {
	gh *gh.Client
}

// NewGitHubClient builds a client for the given host. Hosts other than
// github.com are treated as GitHub Enterprise instances. The token may be
// empty for public repositories.
func NewGitHubClient(host, token string) (*GitHubClient, error) {
	rateLimitClient := github_ratelimit.NewClient(hostTransport())
	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	if host != "" && host != "github.com" && host != "www.github.com" {
		base := fmt.Sprintf("https://%s/api/v3/", host)
		upload := fmt.Sprintf("https://%s/api/uploads/", host)
		var err error
		client, err = client.WithEnterpriseURLs(base, upload)
		if err != nil {
			return nil, fmt.Errorf("configuring enterprise URLs for %s: %w", host, err)
		}
	}
	return &GitHubClient{gh: client}, nil
}

// NewGitHubClientWithBase builds a client against an explicit base URL,
// which lets tests inject an httptest server.
func NewGitHubClientWithBase(httpClient *http.Client, baseURL string) (*GitHubClient, error) {
	client := gh.NewClient(httpClient)
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u
	return &GitHubClient{gh: client}, nil
}

// FetchFiles retrieves all files of a pull request, following pagination,
// and replays each patch fragment into new-side content. OldContent stays
// empty; the list-files API carries only the fragment.
func (c *GitHubClient) FetchFiles(ctx context.Context, ref ChangeRequestRef) ([]FileChange, error) {
	opts := &gh.ListOptions{PerPage: 100}
	var changes []FileChange

	for {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, ref.Owner, ref.Repo, ref.Number, opts)
		if err != nil {
			var erResp *gh.ErrorResponse
			if errors.As(err, &erResp) && erResp.Response != nil {
				return nil, &StatusError{Code: erResp.Response.StatusCode}
			}
			return nil, fmt.Errorf("listing files for %s/%s#%d (page %d): %w",
				ref.Owner, ref.Repo, ref.Number, opts.Page, err)
		}

		for _, f := range files {
			changes = append(changes, FileChange{
				Path:       f.GetFilename(),
				NewContent: ReplayNew(f.GetPatch()),
				NewLines:   NewLineNumbers(f.GetPatch()),
				ChangeType: mapCommitFileStatus(f.GetStatus()),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return changes, nil
}

// mapCommitFileStatus folds GitHub's file statuses onto the shared change
// types. Copies surface as additions; renames keep the modified type since
// the content under the new path is what gets reviewed.
func mapCommitFileStatus(status string) ChangeType {
	switch status {
	case "added", "copied":
		return ChangeAdded
	case "removed":
		return ChangeDeleted
	default:
		return ChangeModified
	}
}

// PostReview submits the post back to the pull request as a COMMENT
// review. The head SHA is fetched first so the review anchors to the
// current commit; GitHub rejects reviews against a stale head with 422.
func (c *GitHubClient) PostReview(ctx context.Context, ref ChangeRequestRef, post ReviewPost) error {
	pr, _, err := c.gh.PullRequests.Get(ctx, ref.Owner, ref.Repo, ref.Number)
	if err != nil {
		return fmt.Errorf("fetching head SHA for %s/%s#%d: %w", ref.Owner, ref.Repo, ref.Number, err)
	}

	drafts := make([]*gh.DraftReviewComment, 0, len(post.Comments))
	for _, rc := range post.Comments {
		drafts = append(drafts, &gh.DraftReviewComment{
			Path: gh.Ptr(rc.Path),
			Body: gh.Ptr(rc.Body),
			Line: gh.Ptr(rc.Line),
			Side: gh.Ptr("RIGHT"),
		})
	}

	review := &gh.PullRequestReviewRequest{
		CommitID: gh.Ptr(pr.GetHead().GetSHA()),
		Event:    gh.Ptr("COMMENT"),
		Body:     gh.Ptr(post.Body),
		Comments: drafts,
	}

	_, _, err = c.gh.PullRequests.CreateReview(ctx, ref.Owner, ref.Repo, ref.Number, review)
	if err != nil {
		var erResp *gh.ErrorResponse
		if errors.As(err, &erResp) && erResp.Response != nil {
			if erResp.Response.StatusCode == http.StatusUnprocessableEntity {
				return fmt.Errorf("pull request moved since the review ran; re-run against the current head: %w", err)
			}
			return &StatusError{Code: erResp.Response.StatusCode}
		}
		return fmt.Errorf("posting review for %s/%s#%d: %w", ref.Owner, ref.Repo, ref.Number, err)
	}
	return nil
}
