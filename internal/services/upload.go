package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/activityportal/internal/helpers"
)

const uploadTimeout = 30 * time.Second

// uploadDocument pushes data to the file store, giving up after uploadTimeout.
func uploadDocument(ctx context.Context, store helpers.FileStore, folder, name, contentType string, data []byte) (string, error) {
	if store == nil {
		return "", fmt.Errorf("file storage is not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	type result struct {
		url string
		err error
	}
	done := make(chan result, 1)
	go func() {
		url, err := store.Upload(ctx, folder, name, contentType, bytes.NewReader(data))
		done <- result{url, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("failed to upload document: %v", r.err)
		}
		return r.url, nil
	case <-ctx.Done():
		return "", fmt.Errorf("document upload timeout")
	}
}
