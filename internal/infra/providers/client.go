// Package providers holds the HTTP clients for the detection sidecars: the
// landmark service (pose and face mesh) and the transcription service. The
// sidecars own the models; this process only ships frames and audio to them.
package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const healthTimeout = 5 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}

// ping probes the sidecar health endpoint once. Providers constructed
// against a dead sidecar stay degraded for the process lifetime.
func ping(baseURL string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// multipartFile builds a multipart body with the file under the given field
// plus any extra form fields.
func multipartFile(path, field string, extra map[string]string) (*bytes.Buffer, string, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	fd, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, "", err
	}
	for k, v := range extra {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if err = w.Close(); err != nil {
		return nil, "", err
	}
	return &b, w.FormDataContentType(), nil
}

func checkStatus(resp *http.Response, service string) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("%s %s: %s", service, resp.Status, string(body))
}
