package spravportal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req CheckRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"79991234567"}, req.Phones)
		assert.True(t, req.Params.AllowOrganizations)
		assert.True(t, req.Params.ShowPhoneInfo)
		assert.True(t, req.Params.ShowOrganization)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"phones":[{"action":"Block","categories":["Мошенники"]}]}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithURL(srv.URL))
	got, err := client.Check(context.Background(), "79991234567")

	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"Block","categories":["Мошенники"]}`, string(got.Entry()))
}

func TestCheck_KeepsExistingQuery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "v2", r.URL.Query().Get("version"))
		assert.Equal(t, "k", r.URL.Query().Get("apiKey"))
		w.Write([]byte(`{"phones":[]}`))
	}))
	defer srv.Close()

	client := NewClient("k", WithURL(srv.URL+"/whocalls/check?version=v2"))
	got, err := client.Check(context.Background(), "")

	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(got.Entry()))
}

func TestCheck_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`maintenance`))
	}))
	defer srv.Close()

	client := NewClient("k", WithURL(srv.URL))
	_, err := client.Check(context.Background(), "79991234567")

	require.Error(t, err)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.HTTPStatus())
	assert.Contains(t, err.Error(), "maintenance")
}

func TestCheck_MalformedJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := NewClient("k", WithURL(srv.URL))
	_, err := client.Check(context.Background(), "79991234567")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestCheck_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := NewClient("k", WithURL(srv.URL), WithTimeout(50*time.Millisecond))
	_, err := client.Check(context.Background(), "79991234567")

	require.Error(t, err)
}

func TestEntry_NilResponse(t *testing.T) {
	t.Parallel()

	var r *CheckResponse
	assert.JSONEq(t, `{}`, string(r.Entry()))
	assert.JSONEq(t, `{}`, string((&CheckResponse{Phones: []json.RawMessage{json.RawMessage("null")}}).Entry()))
}
