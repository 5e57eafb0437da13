package spamcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Comment is the submission handed to the spam verification service.
type Comment struct {
	AuthorName  string
	AuthorEmail string
	Content     string
	UserAgent   string
	UserIP      string
}

// Checker decides whether a contact submission is spam. Implementations must
// fail open: an unreachable verification service yields (false, err) and the
// caller stores the message anyway.
type Checker interface {
	Check(ctx context.Context, c Comment) (bool, error)
}

// Client talks to an Akismet-compatible comment-check endpoint.
type Client struct {
	apiKey  string
	siteURL string
	baseURL string // test override
	http    *http.Client
}

func NewClient(apiKey, siteURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		siteURL: siteURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) endpoint() string {
	if c.baseURL != "" {
		return c.baseURL + "/1.1/comment-check"
	}
	return fmt.Sprintf("https://%s.rest.akismet.com/1.1/comment-check", c.apiKey)
}

// Check returns true when the service classifies the comment as spam.
func (c *Client) Check(ctx context.Context, cm Comment) (bool, error) {
	form := url.Values{}
	form.Set("blog", c.siteURL)
	form.Set("user_ip", cm.UserIP)
	form.Set("user_agent", cm.UserAgent)
	form.Set("comment_type", "contact-form")
	form.Set("comment_author", cm.AuthorName)
	form.Set("comment_author_email", cm.AuthorEmail)
	form.Set("comment_content", cm.Content)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("spam check request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("spam check returned %d: %s", resp.StatusCode, string(b))
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(b)) == "true", nil
}

// Disabled is used when no API key is configured; everything passes.
type Disabled struct{}

func (Disabled) Check(ctx context.Context, c Comment) (bool, error) { return false, nil }
