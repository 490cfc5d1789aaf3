package btc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	walletinterfaces "github.com/kaigoh/blockchainwallet/wallet_interfaces"
)

const (
	DefaultScheme = "http"
	DefaultHost   = "localhost"
	DefaultPort   = 3000
)

type (
	SendOptions = walletinterfaces.SendOptions
	Payments    = walletinterfaces.Payments
)

var _ walletinterfaces.Wallet = (*Client)(nil)

// Credentials identify a wallet on the merchant API. An empty SecondPassword
// means the wallet has none and second_password is never sent.
type Credentials struct {
	WalletID       string
	Password       string
	SecondPassword string
}

func (c Credentials) hasSecondPassword() bool {
	return c.SecondPassword != ""
}

// Client talks to the merchant API of a wallet service.
//
// Every call reads the credentials once. A Reconfigure racing with an
// in-flight call decides which credentials that call uses; callers that need
// strict isolation must serialize Reconfigure themselves.
type Client struct {
	baseURL   *url.URL
	transport Getter
	logger    *slog.Logger
	metrics   *Metrics
	creds     atomic.Pointer[Credentials]
}

type clientOptions struct {
	scheme    string
	host      string
	port      int
	baseURL   string
	transport Getter
	logger    *slog.Logger
	metrics   *Metrics
}

type Option func(*clientOptions)

func WithScheme(scheme string) Option {
	return func(o *clientOptions) { o.scheme = scheme }
}

func WithHost(host string) Option {
	return func(o *clientOptions) { o.host = host }
}

func WithPort(port int) Option {
	return func(o *clientOptions) { o.port = port }
}

// WithBaseURL overrides scheme, host and port. The URL may carry a path
// prefix that the merchant path is appended to.
func WithBaseURL(rawURL string) Option {
	return func(o *clientOptions) { o.baseURL = rawURL }
}

// WithTransport replaces the default HTTPTransport.
func WithTransport(t Getter) Option {
	return func(o *clientOptions) { o.transport = t }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// New creates a client for the given wallet. Without options it targets
// http://localhost:3000.
func New(creds Credentials, opts ...Option) (*Client, error) {
	o := clientOptions{
		scheme: DefaultScheme,
		host:   DefaultHost,
		port:   DefaultPort,
	}
	for _, opt := range opts {
		opt(&o)
	}

	rawURL := o.baseURL
	if rawURL == "" {
		rawURL = o.scheme + "://" + net.JoinHostPort(o.host, strconv.Itoa(o.port))
	}
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", rawURL)
	}
	base.RawQuery = ""
	base.Fragment = ""

	if o.transport == nil {
		o.transport = NewHTTPTransport(TransportConfig{})
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	c := &Client{
		baseURL:   base,
		transport: o.transport,
		logger:    o.logger,
		metrics:   o.metrics,
	}
	c.Reconfigure(creds)
	return c, nil
}

// Reconfigure replaces all credentials at once. Calls started afterwards use
// the new values.
func (c *Client) Reconfigure(creds Credentials) {
	c.creds.Store(&creds)
}

// Credentials returns the credentials currently in use.
func (c *Client) Credentials() Credentials {
	return *c.creds.Load()
}

// BaseURL returns the scheme, host and optional path prefix requests go to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// call builds the parameters for one operation and executes it. All public
// operations go through here.
func (c *Client) call(ctx context.Context, op operation, required []param, optionals []optionalParam, opts SendOptions) (any, error) {
	creds := c.Credentials()
	params := buildParams(op, creds, required, optionals, opts)
	return c.execute(ctx, op.action, creds.WalletID, params)
}

func (c *Client) execute(ctx context.Context, action, walletID string, params url.Values) (any, error) {
	endpoint := c.endpoint(walletID, action, params)
	requestID := uuid.NewString()
	start := time.Now()

	c.logger.Debug("merchant request", "request_id", requestID, "action", action, "params", len(params))

	body, err := c.transport.Get(ctx, endpoint)
	if err != nil {
		terr := newTransportError(action, endpoint, err)
		c.metrics.observe(action, outcomeTransportError, time.Since(start))
		c.logger.Debug("merchant request failed", "request_id", requestID, "action", action, "error", terr)
		return nil, terr
	}

	resp, err := decodeResponse(body)
	if err != nil {
		c.metrics.observe(action, outcomeDecodeError, time.Since(start))
		c.logger.Debug("merchant response not json", "request_id", requestID, "action", action, "bytes", len(body), "error", err)
		return nil, &DecodeError{Action: action, Body: body, Err: err}
	}

	c.metrics.observe(action, outcomeOK, time.Since(start))
	c.logger.Debug("merchant response", "request_id", requestID, "action", action, "bytes", len(body), "elapsed", time.Since(start))
	return resp, nil
}

// endpoint returns {base}/merchant/{walletID}/{action}, with the query
// appended only when there are parameters.
func (c *Client) endpoint(walletID, action string, params url.Values) string {
	u := *c.baseURL
	prefix := strings.TrimSuffix(u.Path, "/")
	escapedPrefix := strings.TrimSuffix(c.baseURL.EscapedPath(), "/")
	u.Path = prefix + "/merchant/" + walletID + "/" + action
	u.RawPath = escapedPrefix + "/merchant/" + url.PathEscape(walletID) + "/" + action
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u.String()
}

// decodeResponse accepts exactly one JSON value. Numbers are kept as
// json.Number so satoshi amounts do not lose precision.
func decodeResponse(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errors.New("unexpected data after json value")
		}
		return nil, err
	}
	return v, nil
}
