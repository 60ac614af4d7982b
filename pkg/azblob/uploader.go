// Package azblob stores uploads in an Azure Blob Storage container.
package azblob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

type Uploader struct {
	client      *azblob.Client
	serviceURL  string
	container   string
	contentType string
}

func New(account, key, container string) (*Uploader, error) {
	if account == "" || key == "" || container == "" {
		return nil, errors.New("AZURE_BLOB_ACCOUNT, AZURE_BLOB_KEY and AZURE_BLOB_CONTAINER are required")
	}
	cred, err := azblob.NewSharedKeyCredential(account, key)
	if err != nil {
		return nil, fmt.Errorf("create azure credential: %w", err)
	}
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", account)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create azure blob client: %w", err)
	}
	return &Uploader{
		client:      client,
		serviceURL:  serviceURL,
		container:   container,
		contentType: "image/jpeg",
	}, nil
}

func (u *Uploader) UploadBytes(ctx context.Context, folder string, filename string, b []byte) (string, error) {
	name := blobName(folder, filename)
	_, err := u.client.UploadStream(ctx, u.container, name, bytes.NewReader(b), &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &u.contentType},
	})
	if err != nil {
		return "", fmt.Errorf("upload to azure blob: %w", err)
	}
	return u.serviceURL + u.container + "/" + (&url.URL{Path: name}).EscapedPath(), nil
}

func blobName(folder, filename string) string {
	if folder == "" {
		return filename + ".jpg"
	}
	return path.Join(folder, filename+".jpg")
}
