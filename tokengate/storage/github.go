package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
)

// GitHubClient stores documents as files in GitHub repositories through the
// contents API. The blob SHA doubles as the optimistic-concurrency version
// tag: a PUT carrying a stale SHA fails with a conflict, which surfaces to
// callers as an ordinary write failure.
type GitHubClient struct {
	gh      *github.Client
	timeout time.Duration
}

// NewGitHubClient builds a client authenticated with a personal access
// token. Every call is bounded by the given timeout.
func NewGitHubClient(token string, timeout time.Duration) *GitHubClient {
	return &GitHubClient{
		gh:      github.NewClient(nil).WithAuthToken(token),
		timeout: timeout,
	}
}

func splitRepo(repo string) (owner, name string, err error) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository slug %q, want owner/name", repo)
	}
	return parts[0], parts[1], nil
}

// Get fetches a file's decoded content and blob SHA, or ErrNotFound.
func (c *GitHubClient) Get(ctx context.Context, repo, path string) (*Document, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, name, path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s/%s: %w", repo, path, err)
	}
	if file == nil {
		return nil, fmt.Errorf("failed to read %s/%s: path is a directory", repo, path)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s: %w", repo, path, err)
	}

	slog.Debug("Document fetched",
		slog.String("type", "store"),
		slog.String("repo", repo),
		slog.String("path", path),
		slog.Duration("took", time.Since(start)))

	return &Document{Content: content, SHA: file.GetSHA()}, nil
}

// Put writes a file, conditioned on the expected blob SHA. An empty SHA
// creates the file. The returned SHA versions the new content.
func (c *GitHubClient) Put(ctx context.Context, repo, path, content, sha, message string) (string, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: []byte(content),
	}

	start := time.Now()
	var result *github.RepositoryContentResponse
	if sha == "" {
		result, _, err = c.gh.Repositories.CreateFile(ctx, owner, name, path, opts)
	} else {
		opts.SHA = github.String(sha)
		result, _, err = c.gh.Repositories.UpdateFile(ctx, owner, name, path, opts)
	}
	if err != nil {
		return "", fmt.Errorf("failed to write %s/%s: %w", repo, path, err)
	}

	slog.Debug("Document written",
		slog.String("type", "store"),
		slog.String("repo", repo),
		slog.String("path", path),
		slog.Duration("took", time.Since(start)))

	return result.Content.GetSHA(), nil
}
