package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage_Precedence(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"data string beats message", `{"message":"Bad Request","data":"Buku tidak tersedia"}`, "Buku tidak tersedia"},
		{"message when no data", `{"message":"Peminjaman tidak ditemukan"}`, "Peminjaman tidak ditemukan"},
		{"message when data null", `{"message":"Gagal","data":null}`, "Gagal"},
		{"error field", `{"error":"invalid token"}`, "invalid token"},
		{"error beats data object", `{"message":"x","error":"boom","data":{"field":"nim"}}`, "boom"},
		{"data object as json", `{"message":"Validasi gagal","data":{"nim":"wajib diisi"}}`, `{"nim":"wajib diisi"}`},
		{"json string body", `"Akses ditolak"`, "Akses ditolak"},
		{"plain text body", `upstream connect error`, "upstream connect error"},
		{"empty body", ``, "Bad Request"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, errorMessage([]byte(tc.body), 400))
		})
	}
}

func TestEnvelope_OK(t *testing.T) {
	var env Envelope
	assert.NoError(t, json.Unmarshal([]byte(`{"message":"no success field"}`), &env))
	assert.True(t, env.OK())
	assert.False(t, env.HasData())

	assert.NoError(t, json.Unmarshal([]byte(`{"success":false}`), &env))
	assert.False(t, env.OK())
}
