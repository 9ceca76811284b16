package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Presigned is the backend's answer to a presigned-URL request.
type Presigned struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

// Presign asks the backend for a short-lived upload URL for fileName.
// Some deployments answer without the data envelope, so both shapes decode.
func (c *Client) Presign(ctx context.Context, fileName, fileType string) (Presigned, error) {
	body := map[string]string{"fileName": fileName, "fileType": fileType}
	resp, err := c.send(ctx, http.MethodPost, presignPath, nil, body)
	if err != nil {
		return Presigned{}, err
	}
	defer resp.Body.Close()

	var out struct {
		Presigned
		Data *Presigned `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Presigned{}, fmt.Errorf("decode presigned url: %w", err)
	}
	p := out.Presigned
	if out.Data != nil {
		p = *out.Data
	}
	if p.UploadURL == "" || p.Key == "" {
		return Presigned{}, fmt.Errorf("presigned url: %w", ErrEmptyData)
	}
	return p, nil
}

// PutObject PUTs data straight to a presigned URL. The application backend
// is not involved, so no session cookie is sent.
func (c *Client) PutObject(ctx context.Context, uploadURL, contentType string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(data))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{Status: resp.StatusCode, Method: http.MethodPut, Path: "presigned-url", Message: string(bytes.TrimSpace(msg))}
	}
	return nil
}

// DeleteObject asks the backend to remove an uploaded object by key.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	return c.do(ctx, http.MethodPost, deleteObjectPath, nil, map[string]string{"key": key}, nil)
}
