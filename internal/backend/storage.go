package backend

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"plaza/internal/media"
)

// UploadResult is the stored location of an uploaded file.
type UploadResult struct {
	URL string `json:"url"`
}

// UploadFile streams a local file to backend storage and returns its URL.
// The whole multipart body is buffered through a pipe so large videos do
// not load into memory.
func (c *Client) UploadFile(ctx context.Context, path string) (UploadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return UploadResult{}, fmt.Errorf("open upload source: %w", err)
	}
	defer file.Close()

	pipeReader, pipeWriter := io.Pipe()
	writer := multipart.NewWriter(pipeWriter)

	go func() {
		part, err := writer.CreateFormFile("file", filepath.Base(path))
		if err != nil {
			pipeWriter.CloseWithError(fmt.Errorf("create form file: %w", err))
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pipeWriter.CloseWithError(fmt.Errorf("stream upload body: %w", err))
			return
		}
		pipeWriter.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/storage/upload", nil), pipeReader)
	if err != nil {
		return UploadResult{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if contentType := media.MIMEType(path); contentType != "" {
		req.Header.Set("X-Upload-Content-Type", contentType)
	}

	var result UploadResult
	if err := c.do(req, "upload file", &result); err != nil {
		return UploadResult{}, err
	}
	return result, nil
}
