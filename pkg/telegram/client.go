// Package telegram is a small Bot API client: channel posts, direct replies, polls,
// callback answers and webhook registration. Rate-limited calls wait for retry_after.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/umputun/newscast/pkg/domain"
)

const (
	defaultAPIURL  = "https://api.telegram.org"
	sendRetryLimit = 5
	maxTextRunes   = 4096
	// MaxCaptionRunes is the longest photo caption accepted by the Bot API
	MaxCaptionRunes = 1024
)

// posting methods create a message on every successful request, repeating one that may
// have reached the server can post twice
var postingMethods = map[string]bool{"sendMessage": true, "sendPhoto": true, "sendPoll": true}

// Config configures a Client
type Config struct {
	Token      string
	APIURL     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Attempts   int           // attempts per call, sendRetryLimit if unset
	RetryDelay time.Duration // first backoff delay for transport errors
}

// Client calls the Bot API
type Client struct {
	token      string
	apiURL     string
	httpc      *http.Client
	attempts   int
	retryDelay time.Duration
	sleep      func(context.Context, time.Duration) bool
}

// New makes a Client
func New(cfg Config) *Client {
	c := &Client{
		token:      cfg.Token,
		apiURL:     strings.TrimSuffix(cfg.APIURL, "/"),
		httpc:      cfg.HTTPClient,
		attempts:   cfg.Attempts,
		retryDelay: cfg.RetryDelay,
		sleep:      sleep,
	}
	if c.apiURL == "" {
		c.apiURL = defaultAPIURL
	}
	if c.httpc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		c.httpc = &http.Client{Timeout: timeout}
	}
	if c.attempts <= 0 {
		c.attempts = sendRetryLimit
	}
	if c.retryDelay <= 0 {
		c.retryDelay = 500 * time.Millisecond
	}
	return c
}

type sentMessage struct {
	MessageID int64 `json:"message_id"`
}

// SendText posts an HTML message. Texts over the Bot API limit are split and the
// keyboard goes with the last part. Returns the id of the last message.
func (c *Client) SendText(ctx context.Context, chatID, text string, kb domain.Keyboard) (int64, error) {
	chunks := splitMessage(text)
	if len(chunks) == 0 {
		return 0, errors.New("empty message")
	}

	var msgID int64
	for i, chunk := range chunks {
		req := map[string]any{
			"chat_id":    chatID,
			"text":       chunk,
			"parse_mode": "HTML",
		}
		if i == len(chunks)-1 {
			if rm := toReplyMarkup(kb); rm != nil {
				req["reply_markup"] = rm
			}
		}
		var res sentMessage
		if err := c.call(ctx, "sendMessage", req, &res); err != nil {
			return 0, err
		}
		msgID = res.MessageID
	}
	return msgID, nil
}

// SendPhoto posts a picture by URL with an HTML caption
func (c *Client) SendPhoto(ctx context.Context, chatID, photoURL, caption string, kb domain.Keyboard) (int64, error) {
	if utf8.RuneCountInString(caption) > MaxCaptionRunes {
		return 0, fmt.Errorf("%w: %d runes", ErrCaptionTooLong, utf8.RuneCountInString(caption))
	}
	req := map[string]any{
		"chat_id":    chatID,
		"photo":      photoURL,
		"caption":    caption,
		"parse_mode": "HTML",
	}
	if rm := toReplyMarkup(kb); rm != nil {
		req["reply_markup"] = rm
	}
	var res sentMessage
	if err := c.call(ctx, "sendPhoto", req, &res); err != nil {
		return 0, err
	}
	return res.MessageID, nil
}

// SendPoll posts a regular poll
func (c *Client) SendPoll(ctx context.Context, chatID, question string, options []string) (int64, error) {
	type pollOption struct {
		Text string `json:"text"`
	}
	opts := make([]pollOption, 0, len(options))
	for _, o := range options {
		opts = append(opts, pollOption{Text: o})
	}
	var res sentMessage
	err := c.call(ctx, "sendPoll", map[string]any{"chat_id": chatID, "question": question, "options": opts}, &res)
	if err != nil {
		return 0, err
	}
	return res.MessageID, nil
}

// AnswerCallback acknowledges a callback button press
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	req := map[string]any{"callback_query_id": callbackID}
	if text != "" {
		req["text"] = text
	}
	return c.call(ctx, "answerCallbackQuery", req, nil)
}

// SetWebhook registers the public webhook URL with an optional secret token
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	req := map[string]any{
		"url":             url,
		"allowed_updates": []string{"message", "edited_message", "callback_query"},
	}
	if secret != "" {
		req["secret_token"] = secret
	}
	return c.call(ctx, "setWebhook", req, nil)
}

// call makes one API call with retries. Rate limits wait for retry_after. Idempotent methods
// back off on transport and server errors; posting methods retry only requests that never
// left the client, any other failure is returned at once.
func (c *Client) call(ctx context.Context, method string, payload, result any) error {
	posting := postingMethods[method]
	var permanent, last error
	err := repeater.NewBackoff(c.attempts, c.retryDelay, repeater.WithMaxDelay(10*time.Second)).Do(ctx, func() error {
		err := c.makeRequest(ctx, method, payload, result)
		if err == nil {
			return nil
		}
		last = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			if posting && !notSent(err) {
				permanent = err
				return nil
			}
			return err
		}
		if apiErr.RetryAfter > 0 {
			lgr.Printf("[WARN] telegram %s rate limited, waiting %v", method, apiErr.RetryAfter)
			if !c.sleep(ctx, apiErr.RetryAfter) {
				permanent = ctx.Err()
				return nil
			}
			return err
		}
		if apiErr.Code >= http.StatusInternalServerError && !posting {
			return err
		}
		permanent = err
		return nil
	})

	switch {
	case permanent != nil:
		return permanent
	case err == nil:
		return nil
	case last != nil:
		return last
	default:
		return fmt.Errorf("telegram %s: %w", method, err)
	}
}

// notSent reports a failure to connect, the request was never written
func notSent(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func (c *Client) makeRequest(ctx context.Context, method string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/bot"+c.token+"/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		// url in the error carries the token
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = strings.Replace(urlErr.URL, "/bot"+c.token+"/", "/bot***/", 1)
		}
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}

	var envelope struct {
		apiResponse
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return &APIError{Method: method, Code: resp.StatusCode, Description: "malformed response"}
	}
	if !envelope.OK {
		apiErr := &APIError{Method: method, Code: envelope.ErrorCode, Description: envelope.Description}
		if apiErr.Code == 0 {
			apiErr.Code = resp.StatusCode
		}
		if envelope.Parameters != nil && envelope.Parameters.RetryAfter > 0 {
			apiErr.RetryAfter = time.Duration(envelope.Parameters.RetryAfter) * time.Second
		}
		return apiErr
	}
	if result != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

func splitMessage(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []string
	for text != "" {
		if utf8.RuneCountInString(text) <= maxTextRunes {
			chunks = append(chunks, text)
			break
		}

		lastNewline, lastSpace, byteCap, runes := -1, -1, len(text), 0
		for i, r := range text {
			if runes == maxTextRunes {
				byteCap = i
				break
			}
			runes++
			switch {
			case r == '\n':
				lastNewline = i
			case unicode.IsSpace(r):
				lastSpace = i
			}
		}

		splitAt := byteCap
		switch {
		case lastNewline > 0:
			splitAt = lastNewline
		case lastSpace > 0:
			splitAt = lastSpace
		}
		if chunk := strings.TrimSpace(text[:splitAt]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		text = strings.TrimSpace(text[splitAt:])
	}
	return chunks
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
