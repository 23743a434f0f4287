package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/reddit-dl-go/internal/domain"
	"github.com/yourusername/reddit-dl-go/pkg/retry"
)

const maxPageSize = 100

// ClassifyStatus maps an HTTP status code onto the error taxonomy. 2xx is
// success, 429 is retryable throttling, 5xx is a retryable transient
// failure, and any other 4xx is fatal: a malformed or deleted resource
// cannot recover by retrying.
func ClassifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests:
		return domain.NewClassifiedError(domain.ErrRateLimitExceeded, fmt.Errorf("status %d", code))
	case code >= 500:
		return domain.NewClassifiedError(domain.ErrTransientFailure, fmt.Errorf("status %d", code))
	default:
		return domain.NewClassifiedError(domain.ErrFatalRequest, fmt.Errorf("status %d", code))
	}
}

// Client issues listing and media requests through the shared rate limiter
// and applies the retry policy to API calls.
type Client struct {
	httpClient *http.Client
	limiter    *Limiter
	policy     retry.Policy
	logger     *zap.Logger

	baseURL   string
	tokenURL  string
	auth      domain.AuthConfig
	userAgent string

	token string
}

// NewClient creates a feed API client. It does not touch the network;
// call Authenticate before listing.
func NewClient(auth domain.AuthConfig, cfg domain.RedditConfig, limiter *Limiter, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    limiter,
		policy:     retry.DefaultPolicy(domain.IsRetryable),
		logger:     log,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		tokenURL:   cfg.TokenURL,
		auth:       auth,
		userAgent:  auth.UserAgent,
	}
}

// WithRetryPolicy overrides the retry policy, used by tests to avoid
// real backoff waits.
func (c *Client) WithRetryPolicy(p retry.Policy) *Client {
	c.policy = p
	return c
}

// Authenticate obtains an access token via the client-credentials flow
func (c *Client) Authenticate(ctx context.Context) error {
	var tok tokenResponse

	attempts, err := c.policy.Do(ctx, func() error {
		if err := c.limiter.Acquire(ctx); err != nil {
			return err
		}

		form := url.Values{"grant_type": {"client_credentials"}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
		if err != nil {
			return domain.NewClassifiedError(domain.ErrFatalRequest, err)
		}
		req.SetBasicAuth(c.auth.ClientID, c.auth.ClientSecret)
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return domain.NewClassifiedError(domain.ErrTransientFailure, err)
		}
		defer resp.Body.Close()

		if err := ClassifyStatus(resp.StatusCode); err != nil {
			io.Copy(io.Discard, resp.Body)
			return err
		}
		return json.NewDecoder(resp.Body).Decode(&tok)
	})
	if err != nil {
		return fmt.Errorf("authentication failed after %d attempts: %w", attempts, err)
	}
	if tok.AccessToken == "" {
		return domain.NewClassifiedError(domain.ErrFatalRequest, fmt.Errorf("empty access token"))
	}

	c.token = tok.AccessToken
	c.logger.Debug("authenticated with feed API", zap.Int("expires_in", tok.ExpiresIn))
	return nil
}

// ListPosts returns a lazy listing of posts for one subreddit. The listing
// is finite and not restartable once partially consumed: each page fetch
// consumes rate tokens.
func (c *Client) ListPosts(subreddit string, sort domain.SortMode, window domain.TimeWindow, limit int) *Listing {
	return &Listing{
		client:    c,
		subreddit: subreddit,
		sort:      sort,
		window:    window,
		limit:     limit,
	}
}

// Probe checks whether a resource exists without downloading it. A non-2xx
// answer means absent; only transport errors are reported.
func (c *Client) Probe(ctx context.Context, rawURL string) (bool, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, domain.NewClassifiedError(domain.ErrTransientFailure, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// Get performs one rate-limited GET against a media host. No retrying here:
// the download scheduler owns the retry schedule so backoff waits never
// hold a rate token. The response body is open on success.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, domain.NewClassifiedError(domain.ErrFatalRequest, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewClassifiedError(domain.ErrTransientFailure, err)
	}
	if err := ClassifyStatus(resp.StatusCode); err != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// getJSON fetches an API path with the retry policy applied per call
func (c *Client) getJSON(ctx context.Context, apiURL string, out interface{}) error {
	attempt := 0
	attempts, err := c.policy.Do(ctx, func() error {
		attempt++
		if attempt > 1 {
			c.logger.Debug("retrying API call",
				zap.String("url", apiURL),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", c.policy.Delay(attempt)))
		}

		if err := c.limiter.Acquire(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return domain.NewClassifiedError(domain.ErrFatalRequest, err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return domain.NewClassifiedError(domain.ErrTransientFailure, err)
		}
		defer resp.Body.Close()

		if err := ClassifyStatus(resp.StatusCode); err != nil {
			io.Copy(io.Discard, resp.Body)
			return err
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
	if err != nil {
		return fmt.Errorf("API call failed after %d attempts: %w", attempts, err)
	}
	return nil
}

// Listing is a lazy, finite sequence of posts fetched page by page
type Listing struct {
	client    *Client
	subreddit string
	sort      domain.SortMode
	window    domain.TimeWindow
	limit     int

	buffer  []domain.Post
	after   string
	fetched int
	done    bool
}

// Next returns the next post, or nil when the listing is exhausted
func (l *Listing) Next(ctx context.Context) (*domain.Post, error) {
	for len(l.buffer) == 0 {
		if l.done {
			return nil, nil
		}
		if err := l.fetchPage(ctx); err != nil {
			l.done = true
			return nil, err
		}
	}

	post := l.buffer[0]
	l.buffer = l.buffer[1:]
	return &post, nil
}

func (l *Listing) fetchPage(ctx context.Context) error {
	remaining := l.limit - l.fetched
	if remaining <= 0 {
		l.done = true
		return nil
	}
	pageSize := remaining
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", pageSize))
	q.Set("raw_json", "1")
	if l.sort == domain.SortTop {
		q.Set("t", string(l.window))
	}
	if l.after != "" {
		q.Set("after", l.after)
	}

	apiURL := fmt.Sprintf("%s/r/%s/%s.json?%s", l.client.baseURL, l.subreddit, l.sort, q.Encode())

	var page listingResponse
	if err := l.client.getJSON(ctx, apiURL, &page); err != nil {
		return err
	}

	for _, ch := range page.Data.Children {
		l.buffer = append(l.buffer, toPost(ch.Data))
	}
	l.fetched += len(page.Data.Children)

	l.after = page.Data.After
	if l.after == "" || len(page.Data.Children) == 0 || l.fetched >= l.limit {
		l.done = true
	}

	l.client.logger.Debug("fetched listing page",
		zap.String("subreddit", l.subreddit),
		zap.Int("posts", len(page.Data.Children)),
		zap.String("after", l.after))
	return nil
}

// toPost converts a raw listing child to a domain post
func toPost(d childData) domain.Post {
	post := domain.Post{
		ID:        d.ID,
		Subreddit: d.Subreddit,
		Title:     d.Title,
		Score:     d.Score,
		CreatedAt: time.Unix(int64(d.CreatedUTC), 0).UTC(),
		URL:       html.UnescapeString(d.URL),
		IsVideo:   d.IsVideo,
		IsGallery: d.IsGallery,
	}

	if d.IsVideo {
		post.VideoURL = html.UnescapeString(d.Media.RedditVideo.FallbackURL)
		post.HasAudio = d.Media.RedditVideo.HasAudio
	}

	if d.IsGallery {
		for _, item := range d.GalleryData.Items {
			meta, ok := d.MediaMetadata[item.MediaID]
			if !ok || meta.Source.URL == "" {
				continue
			}
			ext := "jpg"
			if i := strings.LastIndex(meta.Mime, "/"); i >= 0 && i < len(meta.Mime)-1 {
				ext = meta.Mime[i+1:]
			}
			post.GalleryItems = append(post.GalleryItems, domain.GalleryItem{
				URL: html.UnescapeString(meta.Source.URL),
				Ext: ext,
			})
		}
	}

	return post
}
