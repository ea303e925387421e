package api

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
	"sync"
	"time"

	"github.com/google/go-github/v62/github"

	"github.com/just-nibble/repo-quality/pkg/errcodes"
)

const (
	baseURL          = "https://api.github.com"
	defaultUserAgent = "repo-quality-scorer"
	acceptHeader     = "application/vnd.github.v3+json"
)

// GitHubClient is a client for GitHub's REST API that memoises every
// successful response for the cache TTL.
type GitHubClient struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	UserAgent  string

	cache *Cache

	rateMu    sync.RWMutex
	rateLimit RateLimit
}

type Option func(*GitHubClient)

// WithToken authenticates requests. An empty token leaves requests anonymous.
func WithToken(token string) Option {
	return func(c *GitHubClient) { c.Token = token }
}

func WithBaseURL(u string) Option {
	return func(c *GitHubClient) { c.BaseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default HTTP client. A nil client is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *GitHubClient) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// WithTimeout sets the request timeout on a copy of the HTTP client, so a
// shared client passed to WithHTTPClient is left untouched. Apply it after
// WithHTTPClient when both are used.
func WithTimeout(d time.Duration) Option {
	return func(c *GitHubClient) {
		if d <= 0 {
			return
		}
		hc := *c.HTTPClient
		hc.Timeout = d
		c.HTTPClient = &hc
	}
}

func WithUserAgent(ua string) Option {
	return func(c *GitHubClient) { c.UserAgent = ua }
}

func WithCache(cache *Cache) Option {
	return func(c *GitHubClient) { c.cache = cache }
}

// NewGitHubClient creates a new instance of GitHubClient with a 10s timeout
// and a private cache.
func NewGitHubClient(opts ...Option) *GitHubClient {
	c := &GitHubClient{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
		UserAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = NewCache(DefaultCacheTTL, time.Now)
	}
	return c
}

// Request returns the JSON body of GET endpoint, served from the cache when
// a fresh entry exists.
func (c *GitHubClient) Request(ctx context.Context, endpoint string) (json.RawMessage, error) {
	if data, ok := c.cache.Get(endpoint); ok {
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+endpoint, nil)
	if err != nil {
		return nil, &errcodes.APIError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.UserAgent)
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &errcodes.APIError{Err: fmt.Errorf("failed to fetch %s: %w", endpoint, err)}
	}
	defer resp.Body.Close()

	if rl, ok := parseRateLimit(resp.Header); ok {
		c.rateMu.Lock()
		c.rateLimit = rl
		c.rateMu.Unlock()
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errcodes.ErrRepositoryNotFound
	case resp.StatusCode == http.StatusForbidden:
		return nil, errcodes.ErrRateLimitedOrPrivate
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &errcodes.APIError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errcodes.APIError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read %s: %w", endpoint, err)}
	}

	// 204 No Content, e.g. contributors of an empty repository
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("null")
	}
	if !json.Valid(body) {
		return nil, &errcodes.APIError{StatusCode: resp.StatusCode, Err: fmt.Errorf("invalid json from %s", endpoint)}
	}

	c.cache.Set(endpoint, body)
	return body, nil
}

// RateLimit returns the quota reported by the most recent response.
func (c *GitHubClient) RateLimit() RateLimit {
	c.rateMu.RLock()
	defer c.rateMu.RUnlock()
	return c.rateLimit
}

func (c *GitHubClient) ClearCache() {
	c.cache.Clear()
}

func (c *GitHubClient) CacheSize() int {
	return c.cache.Len()
}

// SweepCache drops stale entries and returns how many were removed.
func (c *GitHubClient) SweepCache() int {
	return c.cache.Sweep()
}

func repoEndpoint(owner, repo string) string {
	return fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo))
}

// GetRepository fetches details of a GitHub repository by its owner and name
func (c *GitHubClient) GetRepository(ctx context.Context, owner, repo string) (*github.Repository, error) {
	endpoint := repoEndpoint(owner, repo)

	var repository github.Repository
	if err := c.getJSON(ctx, endpoint, &repository); err != nil {
		return nil, err
	}
	if repository.GetName() == "" || repository.GetFullName() == "" {
		return nil, decodeError(endpoint, errors.New("missing name or full_name"))
	}

	return &repository, nil
}

// GetLanguages fetches the byte count per language, in the order the API
// lists them.
func (c *GitHubClient) GetLanguages(ctx context.Context, owner, repo string) ([]LanguageBytes, error) {
	endpoint := repoEndpoint(owner, repo) + "/languages"

	data, err := c.Request(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	languages, err := decodeLanguages(data)
	if err != nil {
		return nil, decodeError(endpoint, err)
	}
	return languages, nil
}

// GetContributors fetches the first page of contributors.
func (c *GitHubClient) GetContributors(ctx context.Context, owner, repo string, perPage int) ([]*github.Contributor, error) {
	endpoint := fmt.Sprintf("%s/contributors?per_page=%d", repoEndpoint(owner, repo), perPage)

	var contributors []*github.Contributor
	if err := c.getJSON(ctx, endpoint, &contributors); err != nil {
		return nil, err
	}
	return contributors, nil
}

// GetOpenIssues fetches the first page of open issues.
func (c *GitHubClient) GetOpenIssues(ctx context.Context, owner, repo string, perPage int) ([]*github.Issue, error) {
	endpoint := fmt.Sprintf("%s/issues?state=open&per_page=%d", repoEndpoint(owner, repo), perPage)

	var issues []*github.Issue
	if err := c.getJSON(ctx, endpoint, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

func (c *GitHubClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	data, err := c.Request(ctx, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return decodeError(endpoint, err)
	}
	return nil
}

func decodeError(endpoint string, err error) error {
	return &errcodes.APIError{StatusCode: http.StatusOK, Err: fmt.Errorf("failed to decode %s response: %w", endpoint, err)}
}
