package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/peterjpitcher/eventplanner2.0-sub000/pkg/logger"
	"github.com/valyala/fasthttp"
)

var (
	ErrMissingCredentials = errors.New("gateway credentials are not configured")
)

// SendRequest is one outbound message handed to the gateway.
type SendRequest struct {
	To   string
	From string
	Body string
	// StatusCallback, when set, is where the gateway posts delivery updates.
	StatusCallback string
}

// SendResponse is the gateway's answer to a message-creation call,
// reduced to the fields the dispatcher records.
type SendResponse struct {
	Sid          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

type Config struct {
	BaseURL    string
	AccountSid string
	AuthToken  string
	Timeout    time.Duration
}

// Client talks to the external SMS provider's message-creation API.
// One call per send, no retries: a failed send is recorded and surfaced,
// never replayed by this layer.
type Client struct {
	config Config
	client *fasthttp.Client
	auth   string
}

func NewClient(config Config) (*Client, error) {
	if config.AccountSid == "" || config.AuthToken == "" {
		return nil, ErrMissingCredentials
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	c := &Client{
		config: config,
		client: &fasthttp.Client{
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: 60 * time.Second,
		},
		auth: "Basic " + base64.StdEncoding.EncodeToString([]byte(config.AccountSid+":"+config.AuthToken)),
	}

	logger.Info("SMS gateway client initialized", "base_url", config.BaseURL, "timeout", config.Timeout)

	return c, nil
}

// Send creates one message at the gateway and maps the response, or any
// transport failure, to a uniform result.
func (c *Client) Send(ctx context.Context, r *SendRequest) (*SendResponse, error) {
	form := url.Values{}
	form.Set("To", r.To)
	form.Set("From", r.From)
	form.Set("Body", r.Body)
	if r.StatusCallback != "" {
		form.Set("StatusCallback", r.StatusCallback)
	}

	path := fmt.Sprintf("/Accounts/%s/Messages.json", c.config.AccountSid)
	body, err := c.doRequest(ctx, "POST", path, []byte(form.Encode()))
	if err != nil {
		return nil, err
	}

	var resp SendResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if resp.ErrorCode != nil {
		return &resp, fmt.Errorf("gateway rejected message: code=%d %s", *resp.ErrorCode, resp.ErrorMessage)
	}

	logger.Info("SMS handed to gateway", "sid", resp.Sid, "status", resp.Status)

	return &resp, nil
}

// doRequest performs one HTTP request with the configured deadline.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.config.BaseURL + path)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/x-www-form-urlencoded")
	req.Header.Set("Authorization", c.auth)

	if body != nil {
		req.SetBody(body)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.config.Timeout)
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	statusCode := resp.StatusCode()
	if statusCode != fasthttp.StatusOK && statusCode != fasthttp.StatusCreated {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", statusCode, resp.Body())
	}

	result := make([]byte, len(resp.Body()))
	copy(result, resp.Body())

	return result, nil
}
