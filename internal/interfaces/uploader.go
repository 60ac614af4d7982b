package interfaces

import "context"

// Uploader stores a blob and returns a public reference (URL) to it.
type Uploader interface {
	UploadBytes(ctx context.Context, folder string, filename string, b []byte) (string, error)
}
