package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no document exists at the requested
// path. Callers that treat absence as empty initial state must check for it
// explicitly; every other failure means the read itself failed.
var ErrNotFound = errors.New("document not found")

// Document is a versioned file read from the data repository. SHA is the
// opaque version tag required to replace the content; a write with a stale
// SHA is rejected by the store.
type Document struct {
	Content string
	SHA     string
}

// Client is the document store consumed by the claim coordinator and the
// sweeper. Writes are conditional on the SHA returned by the matching read;
// an empty SHA means "create, the document must not exist yet".
type Client interface {
	// Get fetches a document and its version tag, or ErrNotFound.
	Get(ctx context.Context, repo, path string) (*Document, error)
	// Put replaces (or creates) a document and returns the new version tag.
	// The message is recorded as the commit message in the data repository.
	Put(ctx context.Context, repo, path, content, sha, message string) (string, error)
}
