package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/tasklink-api/internal/config"
	"golang.org/x/time/rate"
)

// maxResponseBytes bounds how much of a Bot API reply is read.
const maxResponseBytes = 4 << 20

// Client calls the Telegram Bot API over HTTPS.
type Client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	limiter     *rate.Limiter
	pollTimeout time.Duration
	logger      *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Bot API client from cfg. Outbound sendMessage calls are
// limited to cfg.MessagesPerSecond.
func NewClient(cfg config.TelegramConfig, logger *slog.Logger, opts ...Option) (*Client, error) {
	if cfg.BotToken == "" {
		return nil, errors.New("telegram bot token is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	perSecond := cfg.MessagesPerSecond
	if perSecond <= 0 {
		perSecond = 25
	}
	pollTimeout := time.Duration(cfg.PollTimeoutSeconds) * time.Second

	c := &Client{
		baseURL:     strings.TrimRight(cfg.APIURL, "/"),
		token:       cfg.BotToken,
		limiter:     rate.NewLimiter(rate.Limit(perSecond), 1),
		pollTimeout: pollTimeout,
		// Long polls hold the request open for pollTimeout.
		httpClient: &http.Client{Timeout: pollTimeout + 15*time.Second},
		logger:     logger.With(slog.String("component", "telegram_client")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SendMessage posts HTML-formatted text to chatID.
// Every failure is returned as a *TransportError.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Method: "sendMessage", Err: err}
	}
	return c.call(ctx, "sendMessage", sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: ParseModeHTML,
	}, nil)
}

// GetUpdates long-polls for message updates with IDs >= offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	var updates []Update
	err := c.call(ctx, "getUpdates", getUpdatesRequest{
		Offset:         offset,
		Timeout:        int(c.pollTimeout / time.Second),
		AllowedUpdates: []string{"message"},
	}, &updates)
	if err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) call(ctx context.Context, method string, payload any, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &TransportError{Method: method, Err: fmt.Errorf("encode request: %w", err)}
	}

	url := c.baseURL + "/bot" + c.token + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Method: method, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &TransportError{Method: method, StatusCode: resp.StatusCode, Err: err}
	}

	var envelope apiResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return &TransportError{
			Method:     method,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	if !envelope.OK {
		code := envelope.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return &TransportError{Method: method, StatusCode: code, Description: envelope.Description}
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return &TransportError{Method: method, Err: fmt.Errorf("decode result: %w", err)}
		}
	}

	c.logger.Debug("bot api call succeeded", slog.String("method", method))
	return nil
}
