package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"diylab/internal/adapters/http/perf"
)

// maxErrorBody bounds how much of an error response is read for message
// extraction.
const maxErrorBody = 4 << 10

// Client issues credentialed requests against the DIY Lab backend REST API.
// Every operation is at-most-once: no retries, no request timeout (callers
// impose deadlines through ctx when they want one).
type Client struct {
	baseURL   string
	hc        *http.Client
	collector *perf.Collector
}

// New creates a client for the backend at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{},
	}
}

// WithCollector enables timing of backend calls for the perf dashboard.
func (c *Client) WithCollector(collector *perf.Collector) *Client {
	c.collector = collector
	return c
}

// Blob is an opaque binary response (PDF/CSV/image export) handed to the
// caller for download-triggering, with a suggested filename.
type Blob struct {
	Data        []byte
	ContentType string
	Filename    string
}

// FilePart is a binary attachment for multipart submissions.
type FilePart struct {
	Field    string
	Filename string
	Data     []byte
}

// do executes one request with the session's backend cookie attached and
// classifies the response. On a 2xx the caller owns resp.Body.
func (c *Client) do(ctx context.Context, cookie, method, p string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+p, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, p, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if c.collector != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		c.collector.Record(perf.Entry{
			Kind:       perf.KindBackend,
			Path:       method + " " + p,
			StatusCode: status,
			DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
			Timestamp:  start,
		})
	}
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		resp.Body.Close()
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		resp.Body.Close()
		return nil, ErrForbidden
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg := extractMessage(resp)
		resp.Body.Close()
		return nil, &RequestError{Status: resp.StatusCode, Message: msg}
	}
	return resp, nil
}

// getJSON issues a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, cookie, p string, out any) error {
	resp, err := c.do(ctx, cookie, http.MethodGet, p, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeJSON(resp, out)
}

// sendJSON issues a request with a JSON body and optionally decodes the
// response into out (out may be nil for fire-and-check calls).
func (c *Client) sendJSON(ctx context.Context, cookie, method, p string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", p, err)
		}
		body = bytes.NewReader(buf)
	}
	resp, err := c.do(ctx, cookie, method, p, body, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	return decodeJSON(resp, out)
}

// getBlob issues a GET for a binary endpoint and returns the raw payload
// with a suggested filename from Content-Disposition.
func (c *Client) getBlob(ctx context.Context, cookie, p string) (Blob, error) {
	resp, err := c.do(ctx, cookie, http.MethodGet, p, nil, "")
	if err != nil {
		return Blob{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Blob{}, &ConnectionError{Err: err}
	}
	return Blob{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    suggestedFilename(resp, p),
	}, nil
}

// postMultipart submits form fields plus binary attachments as one
// multipart request. Payload construction lives here, not in the workflow.
func (c *Client) postMultipart(ctx context.Context, cookie, p string, fields map[string]string, files []FilePart, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return fmt.Errorf("write field %s: %w", name, err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return fmt.Errorf("create file part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return fmt.Errorf("write file part %s: %w", f.Field, err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	resp, err := c.do(ctx, cookie, http.MethodPost, p, &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	return decodeJSON(resp, out)
}

// rawJSON issues a request with a JSON body and returns the raw response
// bytes alongside the response itself, for callers that need headers
// (Set-Cookie) as well as the payload.
func (c *Client) rawJSON(ctx context.Context, cookie, method, p string, in any) ([]byte, *http.Response, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s body: %w", p, err)
		}
		body = bytes.NewReader(buf)
	}
	resp, err := c.do(ctx, cookie, method, p, body, "application/json")
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &ConnectionError{Err: err}
	}
	return raw, resp, nil
}

func decodeBytes(raw []byte, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &RequestError{Status: http.StatusOK, Message: "malformed response from server"}
	}
	return nil
}

func decodeJSON(resp *http.Response, out any) error {
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return &RequestError{Status: resp.StatusCode, Message: "malformed response from server"}
	}
	return nil
}

// extractMessage pulls a human-readable message from a JSON or plain-text
// error body, best effort.
func extractMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return http.StatusText(resp.StatusCode)
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/") || ct == "" {
		return strings.TrimSpace(string(raw))
	}
	return http.StatusText(resp.StatusCode)
}

// suggestedFilename reads Content-Disposition, falling back to the last
// path segment.
func suggestedFilename(resp *http.Response, p string) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				return name
			}
		}
	}
	return path.Base(p)
}

// joinCookies serializes response cookies into a single Cookie header value
// replayed on subsequent backend calls for the same gateway session.
func joinCookies(resp *http.Response) string {
	var pairs []string
	for _, ck := range resp.Cookies() {
		pairs = append(pairs, ck.Name+"="+ck.Value)
	}
	return strings.Join(pairs, "; ")
}
