// Package client drives a myblog server through its HTML forms and JSON
// views. It keeps the session cookie in a jar, so one Client is one browser.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alphabot-ai/myblog/internal/model"
)

var (
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrNotFound           = errors.New("article not found")
	// ErrDenied means the article does not exist or belongs to someone else.
	ErrDenied      = errors.New("article not found or not owned")
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError carries the per-field messages of a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	username   string
}

// New creates a client with an empty cookie jar. Redirects are followed so
// that notices are consumed by the page they land on.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second, Jar: jar},
	}
}

// IsAuthenticated reports whether the last Login succeeded and no Logout
// followed.
func (c *Client) IsAuthenticated() bool {
	return c.username != ""
}

func (c *Client) Username() string {
	return c.username
}

func (c *Client) Register(ctx context.Context, name, username, email, password string) error {
	resp, err := c.postForm(ctx, "/register", url.Values{
		"name":     {name},
		"username": {username},
		"email":    {email},
		"password": {password},
		"confirm":  {password},
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return decodeValidation(resp.Body)
	}
	if err := checkStatus(resp, "register"); err != nil {
		return err
	}
	if finalPath(resp) != "/login" {
		return fmt.Errorf("register: unexpected landing page %s", finalPath(resp))
	}
	return nil
}

func (c *Client) Login(ctx context.Context, username, password string) error {
	resp, err := c.postForm(ctx, "/login", url.Values{"username": {username}, "password": {password}})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "login"); err != nil {
		return err
	}
	if finalPath(resp) == "/login" {
		return ErrInvalidCredentials
	}
	c.username = username
	return nil
}

// RegisterAndLogin registers the user if needed, then logs in.
func (c *Client) RegisterAndLogin(ctx context.Context, name, username, email, password string) error {
	if err := c.Register(ctx, name, username, email, password); err != nil && !errors.Is(err, ErrAlreadyRegistered) {
		return fmt.Errorf("register: %w", err)
	}
	return c.Login(ctx, username, password)
}

func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/logout", nil, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.username = ""
	return checkStatus(resp, "logout")
}

func (c *Client) CreateArticle(ctx context.Context, title, content string) error {
	resp, err := c.postForm(ctx, "/addarticle", url.Values{"title": {title}, "content": {content}})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.articleResult(resp, "create article")
}

func (c *Client) UpdateArticle(ctx context.Context, id int64, title, content string) error {
	resp, err := c.postForm(ctx, "/edit/"+strconv.FormatInt(id, 10), url.Values{"title": {title}, "content": {content}})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.articleResult(resp, "update article")
}

func (c *Client) DeleteArticle(ctx context.Context, id int64) error {
	resp, err := c.do(ctx, http.MethodGet, "/delete/"+strconv.FormatInt(id, 10), nil, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.articleResult(resp, "delete article")
}

// articleResult interprets where a gated article mutation landed.
func (c *Client) articleResult(resp *http.Response, op string) error {
	if resp.StatusCode == http.StatusUnprocessableEntity {
		return decodeValidation(resp.Body)
	}
	if err := checkStatus(resp, op); err != nil {
		return err
	}
	switch finalPath(resp) {
	case "/dashboard":
		return nil
	case "/login":
		return ErrNotLoggedIn
	case "/":
		return ErrDenied
	default:
		return fmt.Errorf("%s: unexpected landing page %s", op, finalPath(resp))
	}
}

func (c *Client) ListArticles(ctx context.Context) ([]model.Article, error) {
	resp, err := c.do(ctx, http.MethodGet, "/articles", nil, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "list articles"); err != nil {
		return nil, err
	}
	var result struct {
		Articles []model.Article `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Articles, nil
}

func (c *Client) GetArticle(ctx context.Context, id int64) (model.Article, error) {
	resp, err := c.do(ctx, http.MethodGet, "/article/"+strconv.FormatInt(id, 10), nil, true)
	if err != nil {
		return model.Article{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return model.Article{}, ErrNotFound
	}
	if err := checkStatus(resp, "get article"); err != nil {
		return model.Article{}, err
	}
	var result struct {
		Article model.Article `json:"article"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return model.Article{}, err
	}
	return result.Article, nil
}

func (c *Client) Search(ctx context.Context, keyword string) ([]model.Article, error) {
	resp, err := c.do(ctx, http.MethodPost, "/search", url.Values{"keyword": {keyword}}, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "search"); err != nil {
		return nil, err
	}
	var result struct {
		Articles []model.Article `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Articles, nil
}

// postForm submits a form asking for JSON, so validation failures come back
// as field maps.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, form, true)
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values, wantJSON bool) (*http.Response, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if wantJSON {
		req.Header.Set("Accept", "application/json")
	}
	return c.HTTPClient.Do(req)
}

func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s: %w (retry after %ss)", op, ErrRateLimited, resp.Header.Get("Retry-After"))
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s failed (%d): %s", op, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}

func decodeValidation(r io.Reader) error {
	var result struct {
		Fields    map[string]string `json:"fields"`
		Duplicate bool              `json:"duplicate"`
	}
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return fmt.Errorf("decode validation error: %w", err)
	}
	verr := &ValidationError{Fields: result.Fields}
	if result.Duplicate {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, verr.Error())
	}
	return verr
}

// finalPath is the path of the last request in a redirect chain.
func finalPath(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	return resp.Request.URL.Path
}
