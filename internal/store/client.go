// Package store persists annotation documents to the annotation server and
// to local files. The server owns both the photographs and their annotation
// sets; the client addresses them by image reference.
package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"survey-markup/internal/annotation"
)

// DefaultTimeout bounds each server round-trip.
const DefaultTimeout = 30 * time.Second

// Client talks to the annotation server. It is safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL. token may be empty
// for servers that do not require authentication.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: DefaultTimeout},
	}
}

// annotationsURL returns the endpoint for an image's annotation set.
func (c *Client) annotationsURL(imageRef string) string {
	return fmt.Sprintf("%s/images/%s/annotations", c.baseURL, url.PathEscape(imageRef))
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// SaveAnnotations uploads the document as the full annotation set for its
// image. The document must be a snapshot the caller no longer mutates.
func (c *Client) SaveAnnotations(ctx context.Context, doc *annotation.Document) error {
	payload, err := annotation.MarshalDocument(doc)
	if err != nil {
		return &PersistError{Ref: doc.ImageRef, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.annotationsURL(doc.ImageRef), bytes.NewReader(payload))
	if err != nil {
		return &PersistError{Ref: doc.ImageRef, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return &PersistError{Ref: doc.ImageRef, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &PersistError{Ref: doc.ImageRef, StatusCode: resp.StatusCode}
	}
	return nil
}

// LoadAnnotations fetches the annotation set for an image. A 404 means the
// image has no annotations yet and yields an empty document, not an error.
func (c *Client) LoadAnnotations(ctx context.Context, imageRef string) (*annotation.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.annotationsURL(imageRef), nil)
	if err != nil {
		return nil, &LoadError{Ref: imageRef, Err: err}
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &LoadError{Ref: imageRef, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return annotation.NewDocument(imageRef), nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{Ref: imageRef, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Ref: imageRef, Err: err}
	}
	doc, err := annotation.UnmarshalDocument(data)
	if err != nil {
		return nil, &LoadError{Ref: imageRef, Err: err}
	}
	if doc.ImageRef == "" {
		doc.ImageRef = imageRef
	}
	return doc, nil
}

// FetchImage downloads the photograph bytes for an image reference.
func (c *Client) FetchImage(ctx context.Context, imageRef string) ([]byte, error) {
	u := fmt.Sprintf("%s/images/%s", c.baseURL, url.PathEscape(imageRef))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &LoadError{Ref: imageRef, Err: err}
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &LoadError{Ref: imageRef, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{Ref: imageRef, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
