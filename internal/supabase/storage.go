package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rxcampus/pkg/platform/sentinel"
)

// EnsureBucket creates a storage bucket if it does not already exist.
// Existing buckets are left untouched, so migration reruns are safe.
func (c *Client) EnsureBucket(ctx context.Context, name string, public bool) error {
	payload, err := json.Marshal(map[string]any{
		"id":     name,
		"name":   name,
		"public": public,
	})
	if err != nil {
		return fmt.Errorf("marshal bucket request: %w", err)
	}

	_, err = c.do(ctx, http.MethodPost, c.baseURL+"/storage/v1/bucket", bytes.NewReader(payload), func(req *http.Request) {
		req.Header.Set("Content-Type", "application/json")
	})
	if errors.Is(err, sentinel.ErrConflict) {
		c.logger.DebugContext(ctx, "bucket already exists", "bucket", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("create bucket %q: %w", name, err)
	}
	return nil
}

// UploadObject streams one object into a bucket, overwriting any existing
// object at that path.
func (c *Client) UploadObject(ctx context.Context, bucket, objectPath string, body io.Reader, contentType string) error {
	rawURL := c.baseURL + "/storage/v1/object/" + url.PathEscape(bucket) + "/" + escapeObjectPath(objectPath)

	_, err := c.do(ctx, http.MethodPost, rawURL, body, func(req *http.Request) {
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("x-upsert", "true")
	})
	if err != nil {
		return fmt.Errorf("upload object %s/%s: %w", bucket, objectPath, err)
	}
	return nil
}

// PublicURL returns the stable download URL for an object in a public bucket.
// No request is made; the URL shape is deterministic.
func (c *Client) PublicURL(bucket, objectPath string) string {
	return c.baseURL + "/storage/v1/object/public/" + url.PathEscape(bucket) + "/" + escapeObjectPath(objectPath)
}

// CreateSignedURL mints a time-limited download URL for an object in a
// private bucket.
func (c *Client) CreateSignedURL(ctx context.Context, bucket, objectPath string, expiresIn time.Duration) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"expiresIn": int(expiresIn.Seconds()),
	})
	if err != nil {
		return "", fmt.Errorf("marshal sign request: %w", err)
	}

	rawURL := c.baseURL + "/storage/v1/object/sign/" + url.PathEscape(bucket) + "/" + escapeObjectPath(objectPath)
	body, err := c.do(ctx, http.MethodPost, rawURL, bytes.NewReader(payload), func(req *http.Request) {
		req.Header.Set("Content-Type", "application/json")
	})
	if err != nil {
		return "", fmt.Errorf("sign object %s/%s: %w", bucket, objectPath, err)
	}

	var resp struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode signed URL response: %w", err)
	}
	if resp.SignedURL == "" {
		return "", errors.New("supabase: empty signed URL in response")
	}
	return c.baseURL + "/storage/v1" + resp.SignedURL, nil
}

// escapeObjectPath escapes each path segment while keeping the separators, so
// "patient-handouts/rec123/my file.pdf" stays a nested path.
func escapeObjectPath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
