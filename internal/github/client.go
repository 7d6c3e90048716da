package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal GitHub Contents API client, just enough to read
// and commit single files in the community repo.
type Client struct {
	api   string
	repo  string
	token string
	http  *http.Client
}

func NewClient(apiURL, repo, token string) *Client {
	return &Client{
		api:   strings.TrimRight(apiURL, "/"),
		repo:  repo,
		token: token,
		http:  &http.Client{Timeout: 30 * time.Second},
	}
}

type FileContents struct {
	SHA     string
	Content []byte
}

func (c *Client) contentsURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/contents/%s", c.api, c.repo, path)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("github api %s %s: status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, truncate(string(body), 200))
	}

	return body, nil
}

// GetFile fetches a file from the given ref, returning its blob SHA and
// decoded content.
func (c *Client) GetFile(ctx context.Context, path, ref string) (*FileContents, error) {
	url := c.contentsURL(path)
	if ref != "" {
		url += "?ref=" + ref
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", path, err)
	}

	var file struct {
		SHA     string `json:"sha"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, fmt.Errorf("failed to parse contents response for %s: %w", path, err)
	}

	// The API wraps base64 content across lines.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to decode content of %s: %w", path, err)
	}

	return &FileContents{SHA: file.SHA, Content: raw}, nil
}

// PutFile commits new content for a file directly to the default branch
// and returns the commit's HTML URL. The sha must be the blob SHA the
// update is based on.
func (c *Client) PutFile(ctx context.Context, path, message string, content []byte, sha string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
		"sha":     sha,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(path), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("failed to commit %s: %w", path, err)
	}

	var result struct {
		Content struct {
			HTMLURL string `json:"html_url"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse commit response for %s: %w", path, err)
	}

	return result.Content.HTMLURL, nil
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}
