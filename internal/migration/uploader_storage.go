package migration

import (
	"bytes"
	"context"

	"rxcampus/internal/supabase"
)

// StorageUploader copies attachments through the Supabase Storage REST API.
// Uploads overwrite, so rerunning a record converges instead of erroring.
type StorageUploader struct {
	client *supabase.Client
	bucket string
}

func NewStorageUploader(client *supabase.Client, bucket string) *StorageUploader {
	return &StorageUploader{client: client, bucket: bucket}
}

func (u *StorageUploader) Upload(ctx context.Context, objectPath string, data []byte, contentType string) error {
	return u.client.UploadObject(ctx, u.bucket, objectPath, bytes.NewReader(data), contentType)
}
