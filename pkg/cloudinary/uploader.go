package cloudinary

import (
	"bytes"
	"context"
	"errors"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryUploader struct {
	cld *cld.Cloudinary
}

func NewCloudinaryUploader(cloud *cld.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cloud}
}

func boolPtr(b bool) *bool {
	return &b
}

func (u *CloudinaryUploader) UploadBytes(ctx context.Context, folder string, filename string, b []byte) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, bytes.NewReader(b), uploader.UploadParams{
		Folder:       folder,
		PublicID:     filename,
		ResourceType: "image",
		Overwrite:    boolPtr(false),
	})
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	return res.SecureURL, nil
}
