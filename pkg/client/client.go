// Package client is a typed Go client for the MediVault REST API. List reads
// go through an injectable cache; mutations invalidate the matching list key
// before returning so subsequent reads are consistent.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"
)

// ErrUnauthorized is returned for every 401 response, regardless of which
// operation triggered it, so callers can run a single login-redirect path.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

// DocumentListTTL is the staleness window for the cached main document list.
const DocumentListTTL = 5 * time.Minute

// Document mirrors the API's document representation.
type Document struct {
	ID           int      `json:"id"`
	UserID       string   `json:"userId"`
	Title        string   `json:"title"`
	Description  *string  `json:"description"`
	DocumentType string   `json:"documentType"`
	FileName     string   `json:"fileName"`
	FilePath     string   `json:"filePath"`
	FileSize     string   `json:"fileSize"`
	MimeType     string   `json:"mimeType"`
	DocumentDate string   `json:"documentDate"`
	DoctorName   *string  `json:"doctorName"`
	FacilityName *string  `json:"facilityName"`
	Tags         []string `json:"tags"`
}

// Symptom mirrors the API's symptom representation.
type Symptom struct {
	ID           int      `json:"id"`
	UserID       string   `json:"userId"`
	SymptomName  string   `json:"symptomName"`
	Severity     int      `json:"severity"`
	Description  *string  `json:"description"`
	Location     *string  `json:"location"`
	Triggers     []string `json:"triggers"`
	Medications  []string `json:"medications"`
	Notes        *string  `json:"notes"`
	DateRecorded string   `json:"dateRecorded"`
}

// User mirrors the API's user representation.
type User struct {
	ID              string  `json:"id"`
	Email           *string `json:"email"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCache replaces the default in-memory cache.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithToken sets a bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   NewMemoryCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func cacheKey(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "?" + params.Encode()
}

const documentsListKey = "/api/documents"

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, data)
	}
	return data, nil
}

// getCached reads through the cache with the given TTL. A TTL of 0 bypasses
// the cache entirely.
func (c *Client) getCached(ctx context.Context, endpoint string, params url.Values, ttl time.Duration, out interface{}) error {
	key := cacheKey(endpoint, params)
	if ttl > 0 {
		if data, ok := c.cache.Get(key); ok {
			return json.Unmarshal(data, out)
		}
	}

	path := endpoint
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	data, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	if ttl > 0 {
		c.cache.Set(key, data, ttl)
	}
	return json.Unmarshal(data, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	data, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(body), "application/json")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (c *Client) putJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	data, err := c.do(ctx, http.MethodPut, path, bytes.NewReader(body), "application/json")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// CurrentUser fetches the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.getCached(ctx, "/api/auth/user", nil, 0, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListDocuments returns the main document list, served from cache within
// the staleness window.
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	var docs []Document
	if err := c.getCached(ctx, documentsListKey, nil, DocumentListTTL, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *Client) GetDocument(ctx context.Context, id int) (*Document, error) {
	var doc Document
	if err := c.getCached(ctx, fmt.Sprintf("/api/documents/%d", id), nil, 0, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) SearchDocuments(ctx context.Context, query string) ([]Document, error) {
	params := url.Values{"q": {query}}
	var docs []Document
	if err := c.getCached(ctx, "/api/documents/search", params, 0, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ListDocumentsByType returns documents filtered to one document type.
func (c *Client) ListDocumentsByType(ctx context.Context, documentType string) ([]Document, error) {
	var docs []Document
	if err := c.getCached(ctx, "/api/documents/type/"+url.PathEscape(documentType), nil, 0, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// UploadDocumentInput is the multipart payload for UploadDocument. FileName,
// ContentType, and Content describe the file part; the remaining fields are
// form metadata. Optional fields left empty are omitted from the form.
type UploadDocumentInput struct {
	FileName     string
	ContentType  string
	Content      io.Reader
	Title        string
	DocumentType string
	DocumentDate string
	Description  string
	DoctorName   string
	FacilityName string
	Tags         []string
}

// UploadDocument uploads a file with its metadata and invalidates the cached
// document list before returning.
func (c *Client) UploadDocument(ctx context.Context, in UploadDocumentInput) (*Document, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, in.FileName))
	header.Set("Content-Type", in.ContentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, in.Content); err != nil {
		return nil, err
	}

	fields := map[string]string{
		"title":        in.Title,
		"documentType": in.DocumentType,
		"documentDate": in.DocumentDate,
		"description":  in.Description,
		"doctorName":   in.DoctorName,
		"facilityName": in.FacilityName,
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	if in.Tags != nil {
		tags, err := json.Marshal(in.Tags)
		if err != nil {
			return nil, err
		}
		if err := w.WriteField("tags", string(tags)); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPost, documentsListKey, &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	c.cache.Delete(documentsListKey)

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument removes a document and invalidates the cached list before
// returning.
func (c *Client) DeleteDocument(ctx context.Context, id int) error {
	if _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/documents/%d", id), nil, ""); err != nil {
		return err
	}
	c.cache.Delete(documentsListKey)
	return nil
}

func (c *Client) ListSymptoms(ctx context.Context) ([]Symptom, error) {
	var items []Symptom
	if err := c.getCached(ctx, "/api/symptoms", nil, 0, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateSymptom(ctx context.Context, sym *Symptom) (*Symptom, error) {
	var out Symptom
	if err := c.postJSON(ctx, "/api/symptoms", sym, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSymptom(ctx context.Context, id int, fields map[string]interface{}) (*Symptom, error) {
	var out Symptom
	if err := c.putJSON(ctx, fmt.Sprintf("/api/symptoms/%d", id), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSymptom(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/symptoms/%d", id), nil, "")
	return err
}

// JoinWaitlist submits a waitlist signup.
func (c *Client) JoinWaitlist(ctx context.Context, email, firstName string) error {
	return c.postJSON(ctx, "/api/waitlist", map[string]string{
		"email":     email,
		"firstName": firstName,
	}, nil)
}
