// Package blobstore uploads files to Cloudinary and hands back their public URL.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader is the part of the Cloudinary SDK the store uses
type Uploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// Cloudinary stores blobs under one folder of a Cloudinary account
type Cloudinary struct {
	uploader Uploader
	folder   string
}

// NewCloudinary connects with a cloudinary:// URL
func NewCloudinary(url, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("configure cloudinary: %w", err)
	}
	return &Cloudinary{uploader: &cld.Upload, folder: folder}, nil
}

// NewWithUploader builds a store over any Uploader
func NewWithUploader(u Uploader, folder string) *Cloudinary {
	return &Cloudinary{uploader: u, folder: folder}
}

// Upload stores the content of r at p, replacing what was there, and returns its https URL
func (c *Cloudinary) Upload(ctx context.Context, p string, r io.Reader) (string, error) {
	params := uploader.UploadParams{
		PublicID:       path.Clean(p),
		Folder:         c.folder,
		Overwrite:      api.Bool(true),
		UniqueFilename: api.Bool(false),
		Invalidate:     api.Bool(true),
	}
	res, err := c.uploader.Upload(ctx, r, params)
	if err != nil {
		return "", err
	}
	if res.Error.Message != "" {
		return "", errors.New(res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("cloudinary returned no url")
	}
	return res.SecureURL, nil
}
