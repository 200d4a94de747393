package crelate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// JobPostingsPage is one page of the paginated listing. Records stay raw; the
// normalizer owns turning them into canonical shape.
type JobPostingsPage struct {
	Records []map[string]any
	More    bool
	Total   int
}

func (c *Client) ListJobPostings(ctx context.Context, take, skip int) (JobPostingsPage, error) {
	path := fmt.Sprintf("/jobPostings?take=%d&skip=%d", take, skip)
	resp, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return JobPostingsPage{}, err
	}
	if !resp.OK() {
		return JobPostingsPage{}, fmt.Errorf("jobPostings status %d body=%s", resp.Status, truncate(string(resp.Body), 240))
	}

	m := resp.Map()
	page := JobPostingsPage{
		Records: envelopeRecords(m),
		More:    envelopeBool(m, "MoreRecordsAvailable", "moreRecordsAvailable", "HasMore", "hasMore"),
		Total:   envelopeInt(m, "TotalRecords", "totalRecords", "Total", "total"),
	}
	return page, nil
}

func (c *Client) GetJobPosting(ctx context.Context, id string) (map[string]any, error) {
	resp, err := c.Do(ctx, http.MethodGet, "/jobPostings/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("jobPosting %s status %d body=%s", id, resp.Status, truncate(string(resp.Body), 240))
	}
	m := resp.Map()
	// Some endpoints wrap the record, some don't.
	if rec, ok := m["Result"].(map[string]any); ok {
		return rec, nil
	}
	if rec, ok := m["result"].(map[string]any); ok {
		return rec, nil
	}
	return m, nil
}

// CreateCandidate posts the mapped submission fields and returns the new
// candidate's external id.
func (c *Client) CreateCandidate(ctx context.Context, fields map[string]string) (string, error) {
	resp, err := c.Do(ctx, http.MethodPost, "/candidates", fields)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", fmt.Errorf("create candidate status %d body=%s", resp.Status, truncate(string(resp.Body), 240))
	}
	id := envelopeString(resp.Map(), "Result", "result", "Id", "id")
	if id == "" {
		return "", fmt.Errorf("create candidate: no id in response body=%s", truncate(string(resp.Body), 240))
	}
	return id, nil
}

func (c *Client) UploadResume(ctx context.Context, candidateID, filename string, content []byte) error {
	path := "/candidates/" + url.PathEscape(candidateID) + "/attachments"
	resp, err := c.upload(ctx, path, "file", filename, content)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("upload resume status %d body=%s", resp.Status, truncate(string(resp.Body), 240))
	}
	return nil
}

func (c *Client) LinkRequisition(ctx context.Context, candidateID, externalJobID string) error {
	path := "/candidates/" + url.PathEscape(candidateID) + "/requisitions"
	resp, err := c.Do(ctx, http.MethodPost, path, map[string]string{"jobPostingId": externalJobID})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("link requisition status %d body=%s", resp.Status, truncate(string(resp.Body), 240))
	}
	return nil
}

// Ping is the diagnostics probe: smallest possible authenticated listing call.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.Do(ctx, http.MethodGet, "/jobPostings?take=1&skip=0", nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("auth probe status %d body=%s", resp.Status, truncate(string(resp.Body), 240))
	}
	return nil
}

// Envelope readers. Crelate wraps lists in a handful of key spellings
// depending on API version; try them in order.

func envelopeRecords(m map[string]any) []map[string]any {
	for _, k := range []string{"Results", "results", "Data", "data", "Records", "records"} {
		raw, ok := m[k].([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(raw))
		for _, r := range raw {
			if rec, ok := r.(map[string]any); ok {
				out = append(out, rec)
			}
		}
		return out
	}
	return nil
}

func envelopeBool(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if v, ok := m[k].(bool); ok {
			return v
		}
	}
	return false
}

func envelopeInt(m map[string]any, keys ...string) int {
	for _, k := range keys {
		if v, ok := m[k].(float64); ok {
			return int(v)
		}
	}
	return 0
}

func envelopeString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
