package utils

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
)

var ErrTooLarge = errors.New("file too large")

// ReadUpload returns the content of an uploaded form file. Files over max
// bytes fail with ErrTooLarge, whether the declared size or the bytes read
// exceed it.
func ReadUpload(fh *multipart.FileHeader, max int64) ([]byte, error) {
	if fh.Size > max {
		return nil, ErrTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		return nil, fmt.Errorf("read upload %q: %w", fh.Filename, err)
	}
	if int64(len(b)) > max {
		return nil, ErrTooLarge
	}
	return b, nil
}
