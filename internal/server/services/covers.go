package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/dmitrijs2005/bookshelf/internal/logging"
	"github.com/dmitrijs2005/bookshelf/internal/server/models"
)

// CoverSigner grants temporary read access to a stored cover object.
type CoverSigner interface {
	PresignGet(ctx context.Context, key string) (string, error)
}

// coverResolver rewrites Book.CoverImage into something a browser can load:
// the placeholder when empty, the value itself when it is already a URL, and
// a presigned URL when it is an object key and a signer is configured.
type coverResolver struct {
	signer CoverSigner
	log    logging.Logger
}

func (r coverResolver) resolve(ctx context.Context, b *models.Book) {
	if b == nil {
		return
	}

	ref := b.CoverImage
	switch {
	case ref == "":
		b.CoverImage = common.DefaultCoverImage
		return
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"), strings.HasPrefix(ref, "data:"):
		return
	case r.signer == nil:
		return
	}

	u, err := r.signer.PresignGet(ctx, ref)
	if err != nil {
		r.log.Warn(ctx, "cover presign failed", "book_id", b.ID, "key", ref, "error", err)
		b.CoverImage = common.DefaultCoverImage
		return
	}
	b.CoverImage = u
}
