package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newscast/pkg/domain"
)

type recorded struct {
	method string
	body   map[string]any
}

func newTestServer(t *testing.T, handler func(method string, body map[string]any) (int, string)) (*httptest.Server, func() []recorded) {
	t.Helper()
	var mu sync.Mutex
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		method := parts[len(parts)-1]
		data, _ := io.ReadAll(r.Body)
		body := map[string]any{}
		_ = json.Unmarshal(data, &body)
		mu.Lock()
		calls = append(calls, recorded{method: method, body: body})
		mu.Unlock()
		code, resp := handler(method, body)
		w.WriteHeader(code)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), calls...)
	}
}

func newTestClient(url string) *Client {
	c := New(Config{Token: "TOKEN", APIURL: url, Attempts: 3, RetryDelay: time.Millisecond})
	c.sleep = func(context.Context, time.Duration) bool { return true }
	return c
}

func TestClient_SendText(t *testing.T) {
	srv, calls := newTestServer(t, func(string, map[string]any) (int, string) {
		return http.StatusOK, `{"ok":true,"result":{"message_id":42}}`
	})
	c := newTestClient(srv.URL)

	kb := domain.Keyboard{{{Text: "Read more", URL: "https://example.com/a"}}}
	id, err := c.SendText(context.Background(), "@news", "<b>hello</b>", kb)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t, "sendMessage", got[0].method)
	assert.Equal(t, "@news", got[0].body["chat_id"])
	assert.Equal(t, "HTML", got[0].body["parse_mode"])
	assert.Equal(t, "<b>hello</b>", got[0].body["text"])
	markup, ok := got[0].body["reply_markup"].(map[string]any)
	require.True(t, ok)
	rows := markup["inline_keyboard"].([]any)
	require.Len(t, rows, 1)
}

func TestClient_SendTextSplitsLongMessages(t *testing.T) {
	srv, calls := newTestServer(t, func(string, map[string]any) (int, string) {
		return http.StatusOK, `{"ok":true,"result":{"message_id":1}}`
	})
	c := newTestClient(srv.URL)

	text := strings.Repeat("word ", 2000) // 10000 runes
	kb := domain.Keyboard{{{Text: "go", CallbackData: "post"}}}
	_, err := c.SendText(context.Background(), "1", text, kb)
	require.NoError(t, err)

	got := calls()
	require.Len(t, got, 3)
	for i, call := range got {
		assert.LessOrEqual(t, utf8.RuneCountInString(call.body["text"].(string)), maxTextRunes)
		_, hasKB := call.body["reply_markup"]
		assert.Equal(t, i == len(got)-1, hasKB, "keyboard only on the last part")
	}
}

func TestClient_RateLimited(t *testing.T) {
	var n atomic.Int32
	srv, _ := newTestServer(t, func(string, map[string]any) (int, string) {
		if n.Add(1) == 1 {
			return http.StatusTooManyRequests, `{"ok":false,"error_code":429,"description":"Too Many Requests","parameters":{"retry_after":3}}`
		}
		return http.StatusOK, `{"ok":true,"result":{"message_id":7}}`
	})
	c := newTestClient(srv.URL)
	var slept []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) bool {
		slept = append(slept, d)
		return true
	}

	id, err := c.SendText(context.Background(), "1", "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, []time.Duration{3 * time.Second}, slept)
	assert.Equal(t, int32(2), n.Load())
}

func TestClient_PermanentErrorNotRetried(t *testing.T) {
	var n atomic.Int32
	srv, _ := newTestServer(t, func(string, map[string]any) (int, string) {
		n.Add(1)
		return http.StatusBadRequest, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`
	})
	c := newTestClient(srv.URL)

	_, err := c.SendText(context.Background(), "1", "hi", nil)
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
	assert.Contains(t, apiErr.Description, "chat not found")
	assert.Equal(t, int32(1), n.Load())
}

func TestClient_ServerErrorRetried(t *testing.T) {
	var n atomic.Int32
	srv, _ := newTestServer(t, func(string, map[string]any) (int, string) {
		n.Add(1)
		return http.StatusBadGateway, `{"ok":false,"error_code":502,"description":"Bad Gateway"}`
	})
	c := newTestClient(srv.URL)

	err := c.AnswerCallback(context.Background(), "cb1", "")
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 502, apiErr.Code)
	assert.Equal(t, int32(3), n.Load())
}

func TestClient_SendPhoto(t *testing.T) {
	srv, calls := newTestServer(t, func(string, map[string]any) (int, string) {
		return http.StatusOK, `{"ok":true,"result":{"message_id":9}}`
	})
	c := newTestClient(srv.URL)

	id, err := c.SendPhoto(context.Background(), "@news", "https://example.com/p.jpg", "caption", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t, "sendPhoto", got[0].method)
	assert.Equal(t, "https://example.com/p.jpg", got[0].body["photo"])
	assert.NotContains(t, got[0].body, "reply_markup")

	_, err = c.SendPhoto(context.Background(), "@news", "https://example.com/p.jpg", strings.Repeat("x", MaxCaptionRunes+1), nil)
	require.ErrorIs(t, err, ErrCaptionTooLong)
	assert.True(t, IsRejected(err))
	assert.Len(t, calls(), 1, "oversized caption is rejected locally")
}

func TestClient_SendPollAndWebhook(t *testing.T) {
	srv, calls := newTestServer(t, func(string, map[string]any) (int, string) {
		return http.StatusOK, `{"ok":true,"result":true}`
	})
	c := newTestClient(srv.URL)

	_, err := c.SendPoll(context.Background(), "@news", "Top story?", []string{"a", "b"})
	require.NoError(t, err)
	require.NoError(t, c.SetWebhook(context.Background(), "https://bot.example.com/webhook", "s3cret"))

	got := calls()
	require.Len(t, got, 2)
	assert.Equal(t, "sendPoll", got[0].method)
	assert.Len(t, got[0].body["options"], 2)
	assert.Equal(t, "setWebhook", got[1].method)
	assert.Equal(t, "s3cret", got[1].body["secret_token"])
}

func TestClient_TransportErrorHidesToken(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1")
	_, err := c.SendText(context.Background(), "1", "hi", nil)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "TOKEN")
}

func TestSplitMessage(t *testing.T) {
	assert.Nil(t, splitMessage("  "))
	assert.Equal(t, []string{"short"}, splitMessage("short"))

	para := strings.Repeat("a", 3000)
	chunks := splitMessage(para + "\n" + para)
	require.Len(t, chunks, 2)
	assert.Equal(t, para, chunks[0])
	assert.Equal(t, para, chunks[1])

	noSpaces := strings.Repeat("я", 5000)
	chunks = splitMessage(noSpaces)
	require.Len(t, chunks, 2)
	assert.Equal(t, maxTextRunes, utf8.RuneCountInString(chunks[0]))
	assert.Equal(t, 5000-maxTextRunes, utf8.RuneCountInString(chunks[1]))
}

func TestToReplyMarkup(t *testing.T) {
	assert.Nil(t, toReplyMarkup(nil))
	rm := toReplyMarkup(domain.Keyboard{
		{{Text: "ok", URL: "https://x"}, {Text: "", URL: "https://y"}},
		{{Text: "no target"}},
	})
	require.NotNil(t, rm)
	require.Len(t, rm.InlineKeyboard, 1)
	assert.Len(t, rm.InlineKeyboard[0], 1)
}

func TestChat_IsPrivate(t *testing.T) {
	assert.True(t, Chat{Type: "private"}.IsPrivate())
	assert.False(t, Chat{Type: "channel"}.IsPrivate())
}

func TestClient_PostNotRepeatedAfterTimeout(t *testing.T) {
	var mu sync.Mutex
	counts := map[string]int{}
	srv, _ := newTestServer(t, func(method string, _ map[string]any) (int, string) {
		mu.Lock()
		counts[method]++
		mu.Unlock()
		time.Sleep(150 * time.Millisecond) // accepted, but the answer comes too late
		return http.StatusOK, `{"ok":true,"result":{"message_id":1}}`
	})
	count := func(method string) int {
		mu.Lock()
		defer mu.Unlock()
		return counts[method]
	}
	// short token appears inside unrelated words of the error text
	c := New(Config{Token: "ime", APIURL: srv.URL, Timeout: 50 * time.Millisecond, Attempts: 3, RetryDelay: time.Millisecond})

	_, err := c.SendText(context.Background(), "@chan", "hello", nil)
	require.Error(t, err)
	assert.Equal(t, 1, count("sendMessage"), "channel post sent once")
	assert.Contains(t, err.Error(), "Timeout")
	assert.Contains(t, err.Error(), "/bot***/sendMessage")
	assert.False(t, IsRejected(err))

	_, err = c.SendPhoto(context.Background(), "@chan", "https://example.com/p.jpg", "caption", nil)
	require.Error(t, err)
	assert.Equal(t, 1, count("sendPhoto"))

	err = c.AnswerCallback(context.Background(), "cb1", "")
	require.Error(t, err)
	assert.Equal(t, 3, count("answerCallbackQuery"), "idempotent call retried")
}

func TestClient_PostServerErrorNotRetried(t *testing.T) {
	var n atomic.Int32
	srv, _ := newTestServer(t, func(string, map[string]any) (int, string) {
		n.Add(1)
		return http.StatusBadGateway, `{"ok":false,"error_code":502,"description":"Bad Gateway"}`
	})
	c := newTestClient(srv.URL)

	_, err := c.SendPoll(context.Background(), "@news", "Top story?", []string{"a", "b"})
	require.Error(t, err)
	assert.Equal(t, int32(1), n.Load())
}

func TestClient_PostRetriedWhenConnectionRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	c := newTestClient("http://" + addr)
	var attempts int
	c.httpc = &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		attempts++
		return http.DefaultTransport.RoundTrip(r)
	})}

	_, err = c.SendText(context.Background(), "@news", "hi", nil)
	require.Error(t, err)
	assert.True(t, notSent(err))
	assert.Equal(t, 3, attempts, "nothing reached the server, safe to repeat")
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestNotSent(t *testing.T) {
	dial := &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}}
	read := &url.Error{Op: "Post", URL: "http://x", Err: &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset")}}

	assert.True(t, notSent(dial))
	assert.True(t, notSent(fmt.Errorf("telegram sendMessage: %w", dial)))
	assert.False(t, notSent(read))
	assert.False(t, notSent(context.DeadlineExceeded))
}

func TestIsRejected(t *testing.T) {
	assert.True(t, IsRejected(&APIError{Method: "sendPhoto", Code: 400, Description: "Bad Request: wrong file identifier"}))
	assert.True(t, IsRejected(fmt.Errorf("wrapped: %w", &APIError{Code: 403})))
	assert.False(t, IsRejected(&APIError{Code: 502}))
	assert.False(t, IsRejected(errors.New("timeout")))
	assert.False(t, IsRejected(nil))
}
