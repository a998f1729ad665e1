package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Store holds evidence images as opaque payloads. The workflow core only
// ever sees the returned references, never storage paths. Evidence must be
// stored (and a reference obtained) before a transition is attempted, so a
// storage fault can never leave a committed transition pointing at nothing.

const MaxBlobSize = 5 << 20 // 5 MiB, matching the upload limit of the UI

var (
	ErrNotFound     = errors.New("blob: not found")
	ErrEmptyPayload = errors.New("blob: empty payload")
	ErrTooLarge     = fmt.Errorf("blob: payload exceeds %d bytes", MaxBlobSize)
	ErrBadMimeType  = errors.New("blob: only image content is accepted")
)

// Ref is an opaque handle to a stored blob.
type Ref string

type Blob struct {
	Data        []byte
	ContentType string
}

type Store interface {
	Put(ctx context.Context, data []byte, contentType string) (Ref, error)
	Get(ctx context.Context, ref Ref) (Blob, error)
}

func validate(data []byte, contentType string) error {
	if len(data) == 0 {
		return ErrEmptyPayload
	}
	if len(data) > MaxBlobSize {
		return ErrTooLarge
	}
	if !strings.HasPrefix(contentType, "image/") {
		return ErrBadMimeType
	}
	return nil
}
