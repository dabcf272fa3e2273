package catalog_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/catalog"
)

func TestService_SearchScope(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = io.WriteString(w, `{"status":200,"success":true,"message":"ok","data":{
			"content":[{"id":"b-1","judulBuku":"Kalkulus","jumlahSalinan":2,"statusBuku":{"id":1,"statusBuku":"TERSEDIA"}}],
			"totalElements":1,"totalPages":1,"size":10,"number":0}}`)
	}))
	defer srv.Close()

	svc := catalog.NewService(api.New(srv.URL, nil), catalog.ScopeAdmin)
	page, err := svc.Search(context.Background(), api.NewQuery(0, 10))

	require.NoError(t, err)
	assert.Equal(t, "/admin/buku/find-all", gotPath)
	assert.JSONEq(t, `{"pageNumber":1,"pageSize":10}`, gotBody)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Kalkulus", page.Content[0].Title)
	assert.True(t, page.Content[0].Availability().IsAvailable())
}

func TestService_LiveStatusPath(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		_, _ = io.WriteString(w, `{"status":200,"success":true,"message":"ok","data":{"bukuId":9,"status":"TERSEDIA","totalStok":3,"stokTersedia":1,"stokDipinjam":2}}`)
	}))
	defer srv.Close()

	st, err := catalog.NewService(api.New(srv.URL, nil), catalog.ScopeUser).LiveStatus(context.Background(), "9")

	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/user/status-buku/9", gotPath)
	assert.Equal(t, api.ID("9"), st.BookID)
	assert.Equal(t, 1, st.AvailableStock)
}

func TestService_MutationsNeedAdmin(t *testing.T) {
	svc := catalog.NewService(api.New("http://127.0.0.1:1", nil), catalog.ScopeUser)

	assert.ErrorIs(t, svc.Create(context.Background(), catalog.BookInput{Title: "x"}), api.ErrForbidden)
	assert.ErrorIs(t, svc.Update(context.Background(), catalog.BookInput{ID: "1"}), api.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(context.Background(), "1"), api.ErrForbidden)
}
