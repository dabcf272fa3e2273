package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/perpusctl/internal/api"
)

type fakeTokens struct {
	token       string
	invalidated int
}

func (f *fakeTokens) Token() string { return f.token }

func (f *fakeTokens) Invalidate() error {
	f.invalidated++
	f.token = ""
	return nil
}

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Post(t *testing.T) {
	var gotAuth, gotReqID, gotCT, gotBody string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		gotCT = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = io.WriteString(w, `{"status":200,"success":true,"message":"ok","data":{"totalBuku":12,"bukuDipinjam":3}}`)
	})

	c := api.New(srv.URL, &fakeTokens{token: "abc"})
	var out api.DashboardStats
	require.NoError(t, c.Post(context.Background(), "/dashboard/stats", nil, &out))

	assert.Equal(t, "Bearer abc", gotAuth)
	assert.NotEmpty(t, gotReqID)
	assert.Equal(t, "application/json", gotCT)
	assert.Equal(t, "{}", gotBody)
	assert.Equal(t, 12, out.TotalBuku)
	assert.Equal(t, 3, out.BukuDipinjam)
}

func TestClient_NoToken(t *testing.T) {
	var gotAuth string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"status":200,"success":true,"message":"ok"}`)
	})

	c := api.New(srv.URL, &fakeTokens{})
	require.NoError(t, c.Post(context.Background(), "/x", nil, nil))
	assert.Empty(t, gotAuth)
}

func TestClient_Unauthorized(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"status":401,"success":false,"message":"Token tidak valid"}`)
	})

	tokens := &fakeTokens{token: "stale"}
	c := api.New(srv.URL, tokens)
	err := c.Post(context.Background(), "/user/buku/find-all", api.NewQuery(0, 10), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrSessionExpired)
	assert.True(t, api.IsSessionError(err))
	assert.Equal(t, 1, tokens.invalidated)
	assert.Empty(t, tokens.token)
	assert.Equal(t, "Error 401: Token tidak valid", api.DisplayMessage(err))
}

func TestClient_SuccessFalse(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":400,"success":false,"message":"Gagal","data":"Stok buku habis"}`)
	})

	c := api.New(srv.URL, nil)
	err := c.Post(context.Background(), "/user/peminjaman", map[string]string{}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrValidation)
	assert.Equal(t, "Error 400: Stok buku habis", err.Error())
}

func TestClient_SuccessFalseWithoutErrorStatus(t *testing.T) {
	for _, body := range []string{
		`{"success":false,"message":"Buku tidak tersedia"}`,
		`{"status":200,"success":false,"message":"Buku tidak tersedia"}`,
	} {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		})
		err := api.New(srv.URL, nil).Post(context.Background(), "/user/peminjaman", nil, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, api.ErrValidation)
		assert.Equal(t, "Buku tidak tersedia", api.DisplayMessage(err), body)
	}
}

func TestClient_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, api.ErrValidation},
		{http.StatusForbidden, api.ErrForbidden},
		{http.StatusNotFound, api.ErrNotFound},
		{http.StatusConflict, api.ErrValidation},
		{http.StatusInternalServerError, api.ErrServer},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, `{"success":false,"message":"nope"}`)
			})
			err := api.New(srv.URL, nil).Post(context.Background(), "/x", nil, nil)
			assert.ErrorIs(t, err, tc.want)

			var apiErr *api.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, "nope", apiErr.Message)
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := api.New(url, nil).Post(context.Background(), "/x", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrNetwork)

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.Status)
	assert.NotContains(t, err.Error(), "Error 0")
}

func TestClient_CanceledContext(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := api.New(srv.URL, nil).Post(ctx, "/x", nil, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, api.ErrNetwork)
}

func TestClient_MissingData(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":200,"success":true,"message":"kosong","data":null}`)
	})

	var out api.DashboardStats
	err := api.New(srv.URL, nil).Post(context.Background(), "/dashboard/stats", nil, &out)
	assert.ErrorIs(t, err, api.ErrMalformed)
}

func TestClient_GarbageBody(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>oops</html>`)
	})

	err := api.New(srv.URL, nil).Post(context.Background(), "/x", nil, nil)
	assert.ErrorIs(t, err, api.ErrMalformed)
}
