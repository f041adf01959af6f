package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestHook(t *testing.T) *Hook {
	return NewHook(WithLogger(zaptest.NewLogger(t)))
}

func TestHook_SendRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("X-Method", r.Method)
			_, _ = io.WriteString(w, `{"message":"fine"}`)
		case "/echo":
			body, _ := io.ReadAll(r.Body)
			w.Header().Set("Content-Type", r.Header.Get("Content-Type"))
			_, _ = w.Write(body)
		case "/null":
			_, _ = io.WriteString(w, "null")
		case "/empty":
			w.WriteHeader(http.StatusOK)
		case "/bad":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"message":"User not found"}`)
		case "/opaque":
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, `<html>bad gateway</html>`)
		}
	}))
	t.Cleanup(srv.Close)

	t.Run("success passes body and clears state", func(t *testing.T) {
		h := newTestHook(t)
		var got string
		err := h.SendRequest(context.Background(), RequestConfig{URL: srv.URL + "/ok"}, func(data []byte) error {
			got = string(data)
			return nil
		})

		require.NoError(t, err)
		assert.JSONEq(t, `{"message":"fine"}`, got)
		assert.False(t, h.Loading())
		assert.Empty(t, h.Error())
	})

	t.Run("body is sent as json", func(t *testing.T) {
		h := newTestHook(t)
		var got string
		err := h.SendRequest(context.Background(), RequestConfig{
			URL:    srv.URL + "/echo",
			Method: http.MethodPost,
			Body:   map[string]string{"name": "A"},
		}, func(data []byte) error {
			got = string(data)
			return nil
		})

		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"A"}`, got)
	})

	t.Run("null and empty bodies become an empty object", func(t *testing.T) {
		h := newTestHook(t)
		for _, path := range []string{"/null", "/empty"} {
			var got string
			err := h.SendRequest(context.Background(), RequestConfig{URL: srv.URL + path}, func(data []byte) error {
				got = string(data)
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, "{}", got, path)
		}
	})

	t.Run("failure status surfaces the message", func(t *testing.T) {
		h := newTestHook(t)
		called := false
		err := h.SendRequest(context.Background(), RequestConfig{URL: srv.URL + "/bad"}, func([]byte) error {
			called = true
			return nil
		})

		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, http.StatusBadRequest, reqErr.Status)
		assert.Equal(t, "User not found", h.Error())
		assert.False(t, h.Loading())
		assert.False(t, called)
	})

	t.Run("failure without message uses the fallback", func(t *testing.T) {
		h := newTestHook(t)
		err := h.SendRequest(context.Background(), RequestConfig{URL: srv.URL + "/opaque"}, nil)

		require.Error(t, err)
		assert.Equal(t, FallbackErrorMessage, h.Error())
	})

	t.Run("callback error is recorded", func(t *testing.T) {
		h := newTestHook(t)
		err := h.SendRequest(context.Background(), RequestConfig{URL: srv.URL + "/ok"}, func([]byte) error {
			return errors.New("cannot render")
		})

		require.Error(t, err)
		assert.Equal(t, "cannot render", h.Error())
	})

	t.Run("next request clears the previous error", func(t *testing.T) {
		h := newTestHook(t)
		_ = h.SendRequest(context.Background(), RequestConfig{URL: srv.URL + "/bad"}, nil)
		require.NotEmpty(t, h.Error())

		require.NoError(t, h.SendRequest(context.Background(), RequestConfig{URL: srv.URL + "/ok"}, nil))
		assert.Empty(t, h.Error())
	})
}

func TestHook_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	h := newTestHook(t)
	err := h.SendRequest(context.Background(), RequestConfig{URL: url}, nil)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Zero(t, reqErr.Status)
	assert.NotEmpty(t, h.Error())
	assert.False(t, h.Loading())
}

func TestHook_StaleResponseDoesNotClobberNewerState(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			close(arrived)
			<-release
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"message":"slow failure"}`)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(srv.Close)

	h := newTestHook(t)

	slowDone := make(chan error, 1)
	go func() {
		slowDone <- h.SendRequest(context.Background(), RequestConfig{URL: srv.URL + "/slow"}, nil)
	}()

	select {
	case <-arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("slow request never reached the server")
	}
	assert.True(t, h.Loading())

	require.NoError(t, h.SendRequest(context.Background(), RequestConfig{URL: srv.URL + "/fast"}, nil))
	assert.False(t, h.Loading())

	close(release)
	select {
	case err := <-slowDone:
		require.Error(t, err, "the caller still sees its own failure")
	case <-time.After(5 * time.Second):
		t.Fatal("slow request did not finish")
	}

	assert.False(t, h.Loading())
	assert.Empty(t, h.Error(), "a superseded request must not set the error")
}
