package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zabahd4k/bildy/internal/session"
)

// countingTransport fails every request and counts attempts. Used to prove
// an operation never reached the network.
type countingTransport struct {
	calls int
}

func (t *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.calls++
	return nil, errors.New("unexpected network call")
}

func testSession() session.Session {
	return session.Session{Token: "abc.def.ghi", Email: "a@b.com"}
}

func TestDo_SetsBearerHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]string{})
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), nil)
	sess := testSession()

	var out []string
	err := c.get(context.Background(), "/api/client", &sess, &out, "fallback")
	require.NoError(t, err)
	require.Equal(t, "Bearer abc.def.ghi", gotAuth)
}

func TestDo_NoTokenShortCircuits(t *testing.T) {
	transport := &countingTransport{}
	c := New("http://unused", &http.Client{Transport: transport}, nil)
	sess := session.Session{}

	var out []string
	err := c.get(context.Background(), "/api/client", &sess, &out, "fallback")
	require.ErrorIs(t, err, ErrUnauthenticated)
	require.Zero(t, transport.calls)
}

func TestDo_StatusErrorWithJSONMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"client already exists"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), nil)
	sess := testSession()

	var out []string
	err := c.get(context.Background(), "/api/client", &sess, &out, "fallback")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusUnprocessableEntity, se.Status)
	require.Equal(t, "client already exists", se.Message)
}

func TestDo_StatusErrorWithPlainTextBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "USER_NOT_VALIDATED", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), nil)
	sess := testSession()

	var out []string
	err := c.get(context.Background(), "/api/client", &sess, &out, "fallback")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusUnauthorized, se.Status)
	require.Equal(t, "USER_NOT_VALIDATED", se.Message)
}

func TestDo_StatusErrorFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), nil)
	sess := testSession()

	var out []string
	err := c.get(context.Background(), "/api/client", &sess, &out, "Could not load clients.")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "Could not load clients.", se.Message)
}

func TestDo_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL, &http.Client{}, nil)
	sess := testSession()

	var out []string
	err := c.get(context.Background(), "/api/client", &sess, &out, "fallback")
	require.ErrorIs(t, err, ErrNetwork)
}

func TestDo_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client(), nil)
	sess := testSession()

	var out []string
	err := c.get(context.Background(), "/api/client", &sess, &out, "fallback")
	require.ErrorIs(t, err, ErrDecode)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"status error", &StatusError{Status: 400, Message: "bad cif"}, "bad cif"},
		{"unauthenticated", ErrUnauthenticated, "You are not logged in."},
		{"network", ErrNetwork, "Could not reach the server. Try again."},
		{"decode", ErrDecode, "The server returned an unexpected response."},
		{"unknown", errors.New("boom"), "Something went wrong. Try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Describe(tt.err))
		})
	}
}
