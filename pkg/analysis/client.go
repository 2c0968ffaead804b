// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
	"io"
	"net"
	"net/http"
	"net/url"
	"runtime"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 5 * time.Second

	// Nothing the evaluator sends should come close to this.
	maxBodyBytes = 1 << 20
	userAgent    = "pwd-meter/1.0"
)

// Options for a new Client. Zero values take the defaults.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Retries is the number of extra attempts on retryable failures. The live pipeline keeps it
	// at zero, superseding input is its own retry.
	Retries int
}

type analyzeRequest struct {
	Password string `json:"password"`
}

// Client issues analysis requests to the remote evaluator.
type Client struct {
	endpoint string
	http     *retryablehttp.Client
	validate *validator.Validate
}

func NewClient(opts Options) (*Client, error) {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid analyzer url %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid analyzer url %q: scheme must be http or https", base)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}

	return &Client{
		endpoint: strings.TrimRight(u.String(), "/") + "/analyze",
		http:     initHttpClient(timeout, retries),
		validate: validator.New(),
	}, nil
}

func initHttpClient(timeout time.Duration, retries int) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	// The pipeline logs what it needs, the retry logs are only noise.
	client.Logger = nil
	client.RetryMax = retries
	// Hand back the last response instead of a generic "giving up" error, so the status code
	// can be reported.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client.HTTPClient = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          10,
			IdleConnTimeout:       30 * time.Second,
			TLSHandshakeTimeout:   timeout,
			ExpectContinueTimeout: 1 * time.Second,
			MaxIdleConnsPerHost:   runtime.GOMAXPROCS(0) + 1,
		},
	}

	return client
}

// Analyze sends the password to the evaluator. Every failure, including a panic in the transport
// path, comes back as a *ConnectivityError.
func (c *Client) Analyze(ctx context.Context, password string) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &ConnectivityError{Kind: Unreachable, Err: fmt.Errorf("recovered: %v", r)}
		}
	}()

	if password == "" {
		return nil, &ConnectivityError{Kind: Malformed, Err: errors.New("empty password is never sent")}
	}

	body, err := json.Marshal(analyzeRequest{Password: password})
	if err != nil {
		return nil, &ConnectivityError{Kind: Malformed, Err: err}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &ConnectivityError{Kind: Unreachable, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return nil, classify(err)
	}

	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing analysis response body")
		}
	}(resp.Body)

	log.Debug().Msgf("analysis request answered with status %d in %v", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &ConnectivityError{Kind: BadStatus, StatusCode: resp.StatusCode}
	}

	var result Result
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&result); err != nil {
		return nil, &ConnectivityError{Kind: Malformed, StatusCode: resp.StatusCode, Err: err}
	}

	if err = c.validate.Struct(&result); err != nil {
		return nil, &ConnectivityError{Kind: Malformed, StatusCode: resp.StatusCode, Err: err}
	}

	return &result, nil
}

func classify(err error) *ConnectivityError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ConnectivityError{Kind: Timeout, Err: err}
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &ConnectivityError{Kind: Timeout, Err: err}
	}

	return &ConnectivityError{Kind: Unreachable, Err: err}
}
