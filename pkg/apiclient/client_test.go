package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"homezen/pkg/apiclient"
)

func newClient(t *testing.T, h http.HandlerFunc) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL+"/", apiclient.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestGet_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		assert.Equal(t, "/properties/all", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Nairobi Heights"}]`))
	})

	ctx := apiclient.WithToken(context.Background(), "abc.def.ghi")
	ctx = apiclient.WithRequestID(ctx, "req-1")

	var out []struct {
		ID   apiclient.ID `json:"id"`
		Name string       `json:"name"`
	}
	require.NoError(t, c.Get(ctx, "/properties/all", &out))

	assert.Equal(t, "Bearer abc.def.ghi", gotAuth)
	assert.Equal(t, "req-1", gotRequestID)
	require.Len(t, out, 1)
	assert.Equal(t, apiclient.ID("1"), out[0].ID)
}

func TestGet_NoTokenNoHeader(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["Authorization"]
		assert.False(t, present)
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, c.Get(context.Background(), "/users/current", nil))
}

func TestPost_SendsJSON(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Kilimani", body["address"])
		_, _ = w.Write([]byte(`{"id":"p-1","name":"Heights","address":"Kilimani"}`))
	})

	var out map[string]string
	require.NoError(t, c.Post(context.Background(), "/properties/create", map[string]string{"name": "Heights", "address": "Kilimani"}, &out))
	assert.Equal(t, "p-1", out["id"])
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
		wantUnauth bool
	}{
		{name: "string detail", status: http.StatusBadRequest, body: `{"detail":"Property already exists"}`, wantDetail: "Property already exists"},
		{name: "validation list", status: http.StatusUnprocessableEntity, body: `{"detail":[{"loc":["body","name"],"msg":"field required"}]}`, wantDetail: "field required"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"detail":"Could not validate credentials"}`, wantDetail: "Could not validate credentials", wantUnauth: true},
		{name: "plain text", status: http.StatusNotFound, body: `nope`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.status)
				_, _ = w.Write([]byte(test.body))
			})

			err := c.Get(context.Background(), "/tenants/all", nil)
			require.Error(t, err)

			var apiErr *apiclient.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, test.status, apiErr.Status)
			assert.Equal(t, test.wantDetail, apiErr.Detail)
			assert.Equal(t, test.wantUnauth, errors.Is(err, apiclient.ErrUnauthorized))
			assert.Equal(t, orDefault(test.wantDetail), apiclient.Detail(err, "fallback"))
		})
	}
}

func orDefault(s string) string {
	if s == "" {
		return "fallback"
	}
	return s
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	calls := 0
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		err := c.Get(context.Background(), "/payments/all", nil)
		var apiErr *apiclient.APIError
		require.True(t, errors.As(err, &apiErr))
	}

	err := c.Get(context.Background(), "/payments/all", nil)
	assert.ErrorIs(t, err, apiclient.ErrUnavailable)
	assert.Equal(t, 5, calls)
}

func TestClientErrorsDoNotTripBreaker(t *testing.T) {
	calls := 0
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	})

	for i := 0; i < 10; i++ {
		err := c.Get(context.Background(), "/payments/all", nil)
		assert.NotErrorIs(t, err, apiclient.ErrUnavailable)
	}
	assert.Equal(t, 10, calls)
}

func TestUpload(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "statement.csv", hdr.Filename)
		assert.Equal(t, "date,amount\n", string(b))
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})

	var out map[string]string
	require.NoError(t, c.Upload(context.Background(), "/transactions/upload", "file", "statement.csv", strings.NewReader("date,amount\n"), &out))
	assert.Equal(t, "ok", out["message"])
}

func TestPath(t *testing.T) {
	assert.Equal(t, "/properties/12/houses/all", apiclient.Path("/properties/%s/houses/all", "12"))
	assert.Equal(t, "/properties/a%2Fb/houses/all", apiclient.Path("/properties/%s/houses/all", "a/b"))
	assert.Equal(t, "/edit/payment/7", apiclient.Path("/edit/payment/%s", apiclient.ID("7")))
}

func TestIDJSON(t *testing.T) {
	var v struct {
		A apiclient.ID `json:"a"`
		B apiclient.ID `json:"b"`
		C apiclient.ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12,"b":"x-1","c":null}`), &v))
	assert.Equal(t, apiclient.ID("12"), v.A)
	assert.Equal(t, apiclient.ID("x-1"), v.B)
	assert.Equal(t, apiclient.ID(""), v.C)

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12,"b":"x-1","c":""}`, string(b))
}
