package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatCompletion = `{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`

func newTestProvider(url string) *OpenAIProvider {
	p := NewOpenAIProvider(url, "test-key", "gpt-4o-mini")
	p.Backoff = time.Millisecond
	return p
}

func TestGenerateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(chatCompletion))
	}))
	defer srv.Close()

	out, err := newTestProvider(srv.URL).Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestGenerateRetriesOn429(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(chatCompletion))
	}))
	defer srv.Close()

	out, err := newTestProvider(srv.URL).Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, 2, calls)
}

func TestGenerateRetriesOn500(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(chatCompletion))
	}))
	defer srv.Close()

	out, err := newTestProvider(srv.URL).Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, 3, calls)
}

func TestGenerateDoesNotRetryOn400(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad request"}}`))
	}))
	defer srv.Close()

	_, err := newTestProvider(srv.URL).Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestGenerateGivesUpAfterMaxRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	p.MaxRetries = 2

	_, err := p.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Equal(t, 3, calls) // initial attempt plus two retries
}

func TestGenerateHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := newTestProvider(srv.URL)
	p.Backoff = time.Minute // cancellation must cut the wait short

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Generate(ctx, "hi")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
