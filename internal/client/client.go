// Package client is a typed HTTP client for the records API.
package client

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
	"time"

	"github.com/aanand-mishra/records-api/internal/types"
)

// ErrNotFound matches any *APIError with status 404.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListPeople(ctx context.Context) ([]types.Person, error) {
	var out []types.Person
	if err := c.do(ctx, http.MethodGet, "/getUsers", nil, &out); err != nil {
		return nil, fmt.Errorf("ListPeople: %w", err)
	}
	return out, nil
}

// CreatePerson returns the stored person with its new id.
func (c *Client) CreatePerson(ctx context.Context, p types.Person) (types.Person, error) {
	p.ID = ""
	var out types.Person
	if err := c.do(ctx, http.MethodPost, "/createUser", p, &out); err != nil {
		return types.Person{}, fmt.Errorf("CreatePerson: %w", err)
	}
	return out, nil
}

func (c *Client) UpdatePerson(ctx context.Context, id string, p types.Person) (types.Person, error) {
	p.ID = ""
	var out types.Person
	if err := c.do(ctx, http.MethodPut, "/updateUser/"+url.PathEscape(id), p, &out); err != nil {
		return types.Person{}, fmt.Errorf("UpdatePerson: %w", err)
	}
	return out, nil
}

func (c *Client) DeletePerson(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("DeletePerson: %w", err)
	}
	return nil
}

func (c *Client) ListProducts(ctx context.Context) ([]types.Product, error) {
	var out []types.Product
	if err := c.do(ctx, http.MethodGet, "/getProducts", nil, &out); err != nil {
		return nil, fmt.Errorf("ListProducts: %w", err)
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, p types.Product) (types.Product, error) {
	p.ID = ""
	var out types.Product
	if err := c.do(ctx, http.MethodPost, "/createProduct", p, &out); err != nil {
		return types.Product{}, fmt.Errorf("CreateProduct: %w", err)
	}
	return out, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, p types.Product) (types.Product, error) {
	p.ID = ""
	var out types.Product
	if err := c.do(ctx, http.MethodPut, "/updateProduct/"+url.PathEscape(id), p, &out); err != nil {
		return types.Product{}, fmt.Errorf("UpdateProduct: %w", err)
	}
	return out, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("DeleteProduct: %w", err)
	}
	return nil
}

// errorBody covers both error shapes the server sends.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
		apiErr := &APIError{Status: res.StatusCode}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && (eb.Message != "" || eb.Error != "") {
			apiErr.Message = eb.Message
			if apiErr.Message == "" {
				apiErr.Message = eb.Error
			}
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
