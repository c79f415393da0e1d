package listing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var ErrFetchFailed = errors.New("list fetch failed")

// StaticFetcher serves a fixed slice, used when no backend is available.
type StaticFetcher[T any] struct {
	Items    []T
	Accessor Accessor[T]
}

func (f StaticFetcher[T]) Fetch(ctx context.Context, q Query) (Page[T], error) {
	if err := ctx.Err(); err != nil {
		return Page[T]{}, err
	}
	return Apply(f.Items, q, f.Accessor), nil
}

// HTTPFetcher performs GET {BaseURL}{Endpoint}?query and decodes the
// {success, data, pagination} envelope.
type HTTPFetcher[T any] struct {
	Client   *http.Client
	BaseURL  string
	Endpoint string
	Token    string
}

type envelope[T any] struct {
	Success    bool       `json:"success"`
	Message    string     `json:"message"`
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func NewHTTPFetcher[T any](baseURL, endpoint, token string) *HTTPFetcher[T] {
	return &HTTPFetcher[T]{
		Client:   &http.Client{Timeout: 15 * time.Second},
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Endpoint: endpoint,
		Token:    token,
	}
}

func (f *HTTPFetcher[T]) Fetch(ctx context.Context, q Query) (Page[T], error) {
	target := f.BaseURL + f.Endpoint + "?" + q.Values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Page[T]{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.Token != "" {
		req.Header.Set("Authorization", "Bearer "+f.Token)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Page[T]{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	var body envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Page[T]{}, fmt.Errorf("%w: decode %s: %v", ErrFetchFailed, f.Endpoint, err)
	}
	if resp.StatusCode >= http.StatusBadRequest || !body.Success {
		message := body.Message
		if message == "" {
			message = resp.Status
		}
		return Page[T]{}, fmt.Errorf("%w: %s", ErrFetchFailed, message)
	}
	return Page[T]{Data: body.Data, Pagination: body.Pagination}, nil
}
