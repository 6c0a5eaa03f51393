// Package github implements the snapshot catalog against the GitHub
// Releases API: every release is one catalog entry whose assets hold the
// zipped daily price tables.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mercaprice/mercaprice-backend/internal/domain"
)

const defaultBaseURL = "https://api.github.com"

// Client talks to the GitHub API for one repository.
type Client struct {
	BaseURL string
	Repo    string
	Token   string
	HTTP    *http.Client
}

// NewClient creates a new Client instance. httpClient carries the fetch
// timeout; pass nil for http.DefaultClient.
func NewClient(repo, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL: defaultBaseURL,
		Repo:    repo,
		Token:   token,
		HTTP:    httpClient,
	}
}

type release struct {
	TagName string         `json:"tag_name"`
	Assets  []releaseAsset `json:"assets"`
}

type releaseAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// ListEntries retrieves the repository's releases as catalog entries.
func (c *Client) ListEntries(ctx context.Context) ([]domain.CatalogEntry, error) {
	url := fmt.Sprintf("%s/repos/%s/releases?per_page=100", c.BaseURL, c.Repo)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, &domain.CatalogFetchError{Op: "list releases", Err: err}
	}

	var releases []release
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, &domain.CatalogFetchError{Op: "decode releases", Err: err}
	}

	entries := make([]domain.CatalogEntry, 0, len(releases))
	for _, rel := range releases {
		assets := make([]domain.CatalogAsset, 0, len(rel.Assets))
		for _, a := range rel.Assets {
			assets = append(assets, domain.CatalogAsset{Name: a.Name, URL: a.BrowserDownloadURL})
		}
		entries = append(entries, domain.CatalogEntry{Tag: rel.TagName, Assets: assets})
	}
	return entries, nil
}

// DownloadAsset fetches one release asset.
func (c *Client) DownloadAsset(ctx context.Context, url string) ([]byte, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, &domain.CatalogFetchError{Op: "download asset", Err: err}
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}
	return io.ReadAll(resp.Body)
}
