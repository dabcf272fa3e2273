package loan_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/loan"
)

type hit struct {
	method, path, body string
	escaped            string
}

func serve(t *testing.T, reply string) (*loan.Service, *[]hit) {
	t.Helper()
	var hits []hit
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		hits = append(hits, hit{method: r.Method, path: r.URL.Path, body: string(b), escaped: r.URL.EscapedPath()})
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return loan.NewService(api.New(srv.URL, nil)), &hits
}

func TestService_Create(t *testing.T) {
	svc, hits := serve(t, `{"status":200,"success":true,"message":"Peminjaman berhasil"}`)

	err := svc.Create(context.Background(), loan.NewCreateRequest("b-1", day("2024-02-25")))
	require.NoError(t, err)
	require.Len(t, *hits, 1)
	h := (*hits)[0]
	assert.Equal(t, http.MethodPost, h.method)
	assert.Equal(t, "/user/peminjaman", h.path)
	assert.JSONEq(t, `{"bukuId":"b-1","tanggalPinjam":"2024-02-25","tanggalKembali":"2024-03-03","statusBukuPinjaman":"DIPINJAM","denda":0}`, h.body)
}

func TestService_ListMineSortDir(t *testing.T) {
	svc, hits := serve(t, `{"status":200,"success":true,"data":{"content":[{"id":"1","statusBukuPinjaman":"DIPINJAM","tanggalPinjam":"2024-01-01"}],"totalElements":1,"totalPages":1,"size":10,"number":0}}`)

	page, err := svc.ListMine(context.Background(), api.NewQuery(0, 10))
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "/user/peminjaman/find-all", (*hits)[0].path)
	assert.JSONEq(t, `{"pageNumber":1,"pageSize":10,"sortColumnDir":"ASC"}`, (*hits)[0].body)
}

func TestService_CheckOverdue(t *testing.T) {
	svc, hits := serve(t, `{"status":200,"success":true,"message":"ok","data":{"updated":3,"message":"3 updated"}}`)

	res, err := svc.CheckOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, loan.SweepResult{Updated: 3, Message: "3 updated"}, res)
	assert.Equal(t, "/admin/peminjaman/check-overdue", (*hits)[0].path)
	assert.Equal(t, "{}", (*hits)[0].body)
}

func TestService_CheckOverdueNoData(t *testing.T) {
	svc, _ := serve(t, `{"status":200,"success":true,"message":"Tidak ada peminjaman terlambat"}`)

	res, err := svc.CheckOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, "Tidak ada peminjaman terlambat", res.Message)
}

func TestService_EscapesLoanIDs(t *testing.T) {
	svc, hits := serve(t, `{"status":200,"success":true}`)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "../buku/1"))
	require.NoError(t, svc.ApproveReturn(ctx, "a/b"))
	_, err := svc.Update(ctx, "a?x=1", loan.UpdateRequest{})
	require.NoError(t, err)

	require.Len(t, *hits, 3)
	assert.Equal(t, "/admin/peminjaman/..%2Fbuku%2F1", (*hits)[0].escaped)
	assert.Equal(t, "/admin/peminjaman/a%2Fb/approve-return", (*hits)[1].escaped)
	assert.Equal(t, "/admin/peminjaman/a%3Fx=1/edit", (*hits)[2].escaped)
}

func TestService_Update_UndecodableEcho(t *testing.T) {
	svc, _ := serve(t, `{"status":200,"success":true,"data":"oops"}`)

	l, err := svc.Update(context.Background(), "1", loan.UpdateRequest{})
	assert.Nil(t, l)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrMalformed)
}

func TestService_Recent(t *testing.T) {
	svc, hits := serve(t, `{"status":200,"success":true,"data":{"content":[],"totalElements":0,"totalPages":0,"size":10,"number":0}}`)

	loans, err := svc.Recent(context.Background(), "", "")
	require.NoError(t, err)
	assert.Empty(t, loans)
	assert.Equal(t, "/admin/peminjaman/recent-peminjaman", (*hits)[0].path)
	assert.JSONEq(t, `{"pageNumber":1,"pageSize":10,"sortColumn":"tanggalPinjam","sortColumnDir":"DESC"}`, (*hits)[0].body)
}

func TestService_AdminPaths(t *testing.T) {
	svc, hits := serve(t, `{"status":200,"success":true,"message":"ok"}`)
	ctx := context.Background()

	require.NoError(t, svc.ApproveReturn(ctx, "5"))
	require.NoError(t, svc.Delete(ctx, "5"))
	l, err := svc.Update(ctx, "5", loan.UpdateRequest{Status: loan.StatusFined})
	require.NoError(t, err)
	assert.Nil(t, l)

	assert.Equal(t, []hit{
		{http.MethodPost, "/admin/peminjaman/5/approve-return", "{}", "/admin/peminjaman/5/approve-return"},
		{http.MethodDelete, "/admin/peminjaman/5", "", "/admin/peminjaman/5"},
		{http.MethodPost, "/admin/peminjaman/5/edit", `{"statusBukuPinjaman":"DENDA"}`, "/admin/peminjaman/5/edit"},
	}, *hits)
}
