// Package apisvc wraps the REST backend of the evaluation platform.
package apisvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/core/user"
	"github.com/trezcool/projectgl/storage"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (err *StatusError) Error() string {
	msg := fmt.Sprintf("backend responded %d %s", err.Code, http.StatusText(err.Code))
	if err.Body != "" {
		msg += ": " + err.Body
	}
	return msg
}

// StatusCode returns the status of a *StatusError found in err's chain, or 0.
func StatusCode(err error) int {
	var sErr *StatusError
	if errors.As(err, &sErr) {
		return sErr.Code
	}
	return 0
}

// Client sends JSON requests to the backend. Every request carries the persisted
// bearer credential, if any.
type Client struct {
	baseURL    string
	http       *http.Client
	intercept  *interceptTransport
	logger     core.Logger
	notifier   core.Notifier
	validate   *validator.Validate
	translator ut.Translator
}

func NewClient(conf core.APIConfig, creds storage.Storage, credKey string, notifier core.Notifier, logger core.Logger) *Client {
	intercept := &interceptTransport{base: http.DefaultTransport, notifier: notifier}
	bearer := &bearerTransport{creds: creds, key: credKey, base: intercept}
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)
	return &Client{
		baseURL:    strings.TrimSuffix(conf.BaseURL, "/"),
		http:       &http.Client{Transport: bearer, Timeout: conf.Timeout},
		intercept:  intercept,
		logger:     logger,
		notifier:   notifier,
		validate:   validate,
		translator: translator,
	}
}

// OnUnauthorized sets the handler run whenever the backend answers 401. It gets the
// credential the rejected request was sent with, "" for none.
func (c *Client) OnUnauthorized(fn func(ctx context.Context, token string)) {
	c.intercept.setUnauthorized(fn)
}

// Validate checks v's validation tags, translating failures into a *core.ValidationError.
func (c *Client) Validate(v interface{}) error {
	return core.TranslateValidation(c.validate.Struct(v), c.translator)
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends in as the JSON body (if not nil) and decodes the response into out (if not
// nil). An empty or null response body leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "encoding %s %s", method, path)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), body)
	if err != nil {
		return errors.Wrapf(err, "building %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return errors.Wrapf(&StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}, "%s %s", method, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return errors.Wrapf(err, "decoding %s %s", method, path)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, query url.Values, in, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, query, in, out)
}

func (c *Client) put(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, in, out)
}

func (c *Client) delete(ctx context.Context, path string, in interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, in, nil)
}

// fail logs a failed call whose caller falls back to an empty result.
func (c *Client) fail(msg string, err error) {
	c.logger.Error(msg, err)
}
