package ads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/paperlib/paperlib/internal/resolve"
)

const (
	// BaseURL is the ADS API base URL.
	BaseURL = "https://api.adsabs.harvard.edu/v1"

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	// RateLimit is the client-side request rate cap, requests per second.
	RateLimit = 5.0

	// TokenEnv is the environment variable holding the API token.
	TokenEnv = "ADS_API_TOKEN"

	// searchFields are the metadata fields requested for lookups.
	searchFields = "bibcode,title,author,year,pub,abstract,identifier"
)

// Client is a rate-limited HTTP client for the ADS API.
// It implements Lookup.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	token      string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sets the API token, overriding the environment.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// NewClient creates a new ADS API client. The token is read from the
// ADS_API_TOKEN environment variable unless WithToken is given.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if token := os.Getenv(TokenEnv); token != "" {
		c.token = token
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// searchResponse is the subset of the /search/query response we consume.
type searchResponse struct {
	Response struct {
		NumFound int         `json:"numFound"`
		Docs     []searchDoc `json:"docs"`
	} `json:"response"`
}

type searchDoc struct {
	Bibcode    string   `json:"bibcode"`
	Title      []string `json:"title"`
	Author     []string `json:"author"`
	Year       string   `json:"year"`
	Pub        string   `json:"pub"`
	Abstract   string   `json:"abstract"`
	Identifier []string `json:"identifier"`
}

// exportResponse is the /export/bibtex response.
type exportResponse struct {
	Export string `json:"export"`
}

// Fetch looks up an identifier and returns the normalized record.
func (c *Client) Fetch(ctx context.Context, id resolve.Identifier) (*Record, error) {
	if c.token == "" {
		return nil, fmt.Errorf("%s not set: %w", TokenEnv, ErrAuthMissing)
	}

	doc, err := c.search(ctx, id)
	if err != nil {
		return nil, err
	}

	bibtex, err := c.exportBibtex(ctx, doc.Bibcode)
	if err != nil {
		return nil, err
	}

	year, _ := strconv.Atoi(doc.Year)
	rec := &Record{
		Bibcode:  doc.Bibcode,
		ArxivID:  arxivIDFromIdentifiers(doc.Identifier),
		Authors:  doc.Author,
		Journal:  doc.Pub,
		Year:     year,
		Abstract: doc.Abstract,
		Bibtex:   bibtex,
	}
	if len(doc.Title) > 0 {
		rec.Title = doc.Title[0]
	}
	// An arXiv lookup that came back with only a provisional bibcode must
	// still carry the arXiv id, even if ADS omitted the identifier list.
	if rec.ArxivID == "" && id.Kind == resolve.KindArxiv {
		rec.ArxivID = id.Value
	}
	return rec, nil
}

// search queries ADS for the single document matching the identifier.
func (c *Client) search(ctx context.Context, id resolve.Identifier) (*searchDoc, error) {
	var q string
	switch id.Kind {
	case resolve.KindBibcode:
		q = fmt.Sprintf("bibcode:%q", id.Value)
	case resolve.KindArxiv:
		q = fmt.Sprintf("identifier:%q", "arXiv:"+id.Value)
	default:
		return nil, fmt.Errorf("unknown identifier kind %d", id.Kind)
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("fl", searchFields)
	params.Set("rows", "1")

	body, err := c.do(ctx, http.MethodGet, "/search/query?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("parsing search response: %w: %v", ErrTransient, err)
	}
	if len(sr.Response.Docs) == 0 {
		return nil, fmt.Errorf("%s: %w", id.Value, ErrNotFound)
	}
	return &sr.Response.Docs[0], nil
}

// exportBibtex fetches the raw BibTeX entry for a bibcode. ADS recommends
// the export endpoint over assembling entries from search fields.
func (c *Client) exportBibtex(ctx context.Context, bibcode string) (string, error) {
	payload, err := json.Marshal(map[string][]string{"bibcode": {bibcode}})
	if err != nil {
		return "", fmt.Errorf("encoding export request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/export/bibtex", payload)
	if err != nil {
		return "", err
	}

	var er exportResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return "", fmt.Errorf("parsing export response: %w: %v", ErrTransient, err)
	}
	return strings.TrimSpace(er.Export) + "\n", nil
}

// do performs one authenticated request and maps failures onto the error
// taxonomy. Network failures and timeouts are transient.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w: %v", ErrTransient, err)
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w: %v", ErrTransient, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	return body, nil
}
