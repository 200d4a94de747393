package crelate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the Crelate REST API. Non-2xx statuses and garbage bodies
// are data, not errors; only transport-level failures (DNS, connect, timeout)
// come back as an error.
type Client struct {
	endpoint string // no trailing slash
	apiKey   string
	hc       *http.Client
	uploadHC *http.Client
	limiter  *HostLimiter
}

type Response struct {
	Status int
	Body   []byte
	// Data is the decoded JSON body, or the raw body as a string when
	// decoding fails.
	Data any
}

func (r Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Map returns the decoded body as an object, or nil.
func (r Response) Map() map[string]any {
	m, _ := r.Data.(map[string]any)
	return m
}

func New(endpoint, apiKey string, limiter *HostLimiter) *Client {
	return &Client{
		endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		apiKey:   strings.TrimSpace(apiKey),
		hc:       &http.Client{Timeout: 30 * time.Second},
		uploadHC: &http.Client{Timeout: 60 * time.Second},
		limiter:  limiter,
	}
}

// Auth strategies, in the order they are tried. Each one is a full round
// trip; the first status in [200,300) wins and later strategies are skipped.
type authMode int

const (
	authBearer authMode = iota
	authQueryKey
	authHeaderKey
)

var authModes = [...]authMode{authBearer, authQueryKey, authHeaderKey}

// Do issues method+path with the auth fallback chain, then retries the
// lower-cased path once if nothing usable came back. The final response is
// returned as-is when every attempt fails.
func (c *Client) Do(ctx context.Context, method, path string, body any) (Response, error) {
	resp, err := c.doWithAuth(ctx, c.hc, method, path, body)
	if err != nil {
		return Response{}, err
	}
	if resp.OK() {
		return resp, nil
	}

	if lower := lowerPath(path); lower != path {
		retried, rerr := c.doWithAuth(ctx, c.hc, method, lower, body)
		if rerr == nil && retried.OK() {
			return retried, nil
		}
	}
	return resp, nil
}

func (c *Client) doWithAuth(ctx context.Context, hc *http.Client, method, path string, body any) (Response, error) {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return Response{}, fmt.Errorf("crelate encode body: %w", err)
		}
		payload = b
	}

	var last Response
	for _, mode := range authModes {
		resp, err := c.send(ctx, hc, method, path, payload, "application/json", mode)
		if err != nil {
			return Response{}, err
		}
		if resp.OK() {
			return resp, nil
		}
		last = resp
	}
	return last, nil
}

func (c *Client) send(ctx context.Context, hc *http.Client, method, path string, payload []byte, contentType string, mode authMode) (Response, error) {
	u, err := url.Parse(c.endpoint + path)
	if err != nil {
		return Response{}, fmt.Errorf("crelate url %q: %w", path, err)
	}
	if mode == authQueryKey {
		q := u.Query()
		q.Set("api_key", c.apiKey)
		u.RawQuery = q.Encode()
	}

	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}
	switch mode {
	case authBearer:
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	case authQueryKey:
		// key already in the query string
	case authHeaderKey:
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, u.String()); err != nil {
			return Response{}, err
		}
	}

	res, err := hc.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("crelate %s %s: %w", method, path, err)
	}
	data, _ := io.ReadAll(res.Body)
	res.Body.Close()

	return decode(res.StatusCode, data), nil
}

func decode(status int, body []byte) Response {
	resp := Response{Status: status, Body: body}
	if len(body) == 0 {
		return resp
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		resp.Data = string(body)
		return resp
	}
	resp.Data = v
	return resp
}

// lowerPath lowercases the path portion only; query values keep their casing.
func lowerPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return strings.ToLower(path[:i]) + path[i:]
	}
	return strings.ToLower(path)
}

// upload pushes a single file as multipart form data. Same auth chain as Do,
// with the longer upload timeout.
func (c *Client) upload(ctx context.Context, path, field, filename string, content []byte) (Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return Response{}, err
	}
	if _, err := fw.Write(content); err != nil {
		return Response{}, err
	}
	if err := mw.Close(); err != nil {
		return Response{}, err
	}

	payload := buf.Bytes()
	var last Response
	for _, mode := range authModes {
		resp, err := c.send(ctx, c.uploadHC, http.MethodPost, path, payload, mw.FormDataContentType(), mode)
		if err != nil {
			return Response{}, err
		}
		if resp.OK() {
			return resp, nil
		}
		last = resp
	}
	return last, nil
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
