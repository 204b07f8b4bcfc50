package ingest

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrUnsupportedURL marks a change-request URL that matches neither the
// merge-request nor the pull-request shape.
var ErrUnsupportedURL = errors.New("unsupported change request URL; expected .../-/merge_requests/<iid> or github.com/<owner>/<repo>/pull/<number>")

// HostKind identifies the hosting backend a URL resolves to.
type HostKind string

const (
	KindGitLab HostKind = "gitlab"
	KindGitHub HostKind = "github"
)

// ChangeRequestRef is a parsed change-request URL. Project holds the
// GitLab namespace path (group/subgroup/project); Owner and Repo hold the
// GitHub coordinates. Number is the MR iid or PR number.
type ChangeRequestRef struct {
	Kind    HostKind
	Host    string
	Project string
	Owner   string
	Repo    string
	Number  int
}

// ParseChangeRequestURL classifies a change-request URL by shape.
// GitLab merge requests use the /-/merge_requests/<iid> path under an
// arbitrarily nested namespace; GitHub pull requests use
// /<owner>/<repo>/pull/<number>. Anything else is ErrUnsupportedURL.
func ParseChangeRequestURL(rawURL string) (ChangeRequestRef, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ChangeRequestRef{}, fmt.Errorf("parsing change request URL: %w", err)
	}
	if u.Host == "" {
		return ChangeRequestRef{}, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
	}
	segs := splitPath(u.Path)

	if ref, ok := parseMergeRequestPath(segs); ok {
		ref.Host = u.Host
		return ref, nil
	}
	if ref, ok := parsePullRequestPath(segs); ok {
		ref.Host = u.Host
		return ref, nil
	}
	return ChangeRequestRef{}, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
}

func splitPath(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// parseMergeRequestPath matches .../-/merge_requests/<iid> with at least
// one namespace segment. Older GitLab URLs omit the /-/ separator; both
// forms are accepted.
func parseMergeRequestPath(segs []string) (ChangeRequestRef, bool) {
	for i, s := range segs {
		if s != "merge_requests" || i+1 >= len(segs) {
			continue
		}
		iid, err := strconv.Atoi(segs[i+1])
		if err != nil {
			return ChangeRequestRef{}, false
		}
		ns := segs[:i]
		if len(ns) > 0 && ns[len(ns)-1] == "-" {
			ns = ns[:len(ns)-1]
		}
		if len(ns) == 0 {
			return ChangeRequestRef{}, false
		}
		return ChangeRequestRef{
			Kind:    KindGitLab,
			Project: strings.Join(ns, "/"),
			Number:  iid,
		}, true
	}
	return ChangeRequestRef{}, false
}

// parsePullRequestPath matches /<owner>/<repo>/pull/<number>.
func parsePullRequestPath(segs []string) (ChangeRequestRef, bool) {
	if len(segs) < 4 || segs[2] != "pull" {
		return ChangeRequestRef{}, false
	}
	num, err := strconv.Atoi(segs[3])
	if err != nil {
		return ChangeRequestRef{}, false
	}
	return ChangeRequestRef{
		Kind:   KindGitHub,
		Owner:  segs[0],
		Repo:   segs[1],
		Number: num,
	}, true
}
