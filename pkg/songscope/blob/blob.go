// Package blob opens dataset sources by URI. Plain paths are read from the
// local filesystem; s3://bucket/key URIs are fetched from an S3-compatible
// object store.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/himanishpuri/SongScope/pkg/utils"
)

// Opener returns a reader for the object named by uri.
type Opener interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// Local opens files from the local filesystem.
type Local struct{}

func (Local) Open(_ context.Context, uri string) (io.ReadCloser, error) {
	f, err := os.Open(utils.ExpandPath(uri))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", uri, err)
	}
	return f, nil
}

// Router dispatches s3:// URIs to S3 and everything else to Local. The S3
// client is created on the first s3:// open.
type Router struct {
	S3Config S3Config
	local    Local
	s3       *S3
}

func NewRouter(cfg S3Config) *Router {
	return &Router{S3Config: cfg}
}

func (r *Router) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if !utils.IsS3URI(uri) {
		return r.local.Open(ctx, uri)
	}
	if r.s3 == nil {
		s3, err := NewS3(ctx, r.S3Config)
		if err != nil {
			return nil, fmt.Errorf("creating s3 client: %w", err)
		}
		r.s3 = s3
	}
	return r.s3.Open(ctx, uri)
}
