package utils

import (
	"bytes"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formFile(t *testing.T, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "me.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	require.Len(t, form.File["file"], 1)
	return form.File["file"][0]
}

func TestReadUpload(t *testing.T) {
	tests := []struct {
		name    string
		content string
		max     int64
		wantErr error
	}{
		{"under limit", "1234", 5, nil},
		{"at limit", "12345", 5, nil},
		{"over limit", "123456", 5, ErrTooLarge},
		{"empty", "", 5, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ReadUpload(formFile(t, tt.content), tt.max)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(b))
		})
	}
}

func TestReadUploadIgnoresUnderstatedSize(t *testing.T) {
	fh := formFile(t, strings.Repeat("x", 10))
	fh.Size = 1

	_, err := ReadUpload(fh, 5)
	assert.ErrorIs(t, err, ErrTooLarge)
}
