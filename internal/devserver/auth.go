package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/blackwell-systems/perpusctl/internal/api"
)

const (
	ctxUserIDKey = "user_id"
	ctxRoleKey   = "role"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

func (s *Server) issueToken(a *account) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      string(a.ID),
		"role":     a.Role,
		"username": a.Username,
		"exp":      s.opts.Now().Add(TokenTTL).Unix(),
	})
	return token.SignedString(s.opts.Secret)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /auth/login
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "Username dan password wajib diisi")
		return
	}
	a, err := s.store.Authenticate(req.Username, req.Password)
	if err != nil {
		failErr(c, err)
		return
	}
	token, err := s.issueToken(a)
	if err != nil {
		fail(c, http.StatusInternalServerError, "could not issue token")
		return
	}
	ok(c, "Login berhasil", s.store.loginData(a, token))
}

// GET /auth/logout
func (s *Server) logout(c *gin.Context) {
	ok(c, "Logout berhasil", nil)
}

// requireAuth validates the bearer token and stores sub/role on the context.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			fail(c, http.StatusUnauthorized, "Token tidak ditemukan")
			return
		}

		token, err := jwt.Parse(strings.TrimSpace(parts[1]), func(t *jwt.Token) (any, error) {
			return s.opts.Secret, nil
		},
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(s.opts.Now),
		)
		if err != nil || !token.Valid {
			fail(c, http.StatusUnauthorized, "Token tidak valid atau kedaluwarsa")
			return
		}
		claims, isMap := token.Claims.(jwt.MapClaims)
		if !isMap {
			fail(c, http.StatusUnauthorized, "Token tidak valid")
			return
		}
		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			fail(c, http.StatusUnauthorized, "Token tidak valid")
			return
		}
		role, _ := claims["role"].(string)

		c.Set(ctxUserIDKey, api.ID(sub))
		c.Set(ctxRoleKey, role)
		c.Next()
	}
}

// requireRole rejects callers whose token role is not in roles.
func requireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, found := allowed[c.GetString(ctxRoleKey)]; !found {
			fail(c, http.StatusForbidden, "Akses ditolak")
			return
		}
		c.Next()
	}
}

func userID(c *gin.Context) api.ID {
	v, _ := c.Get(ctxUserIDKey)
	id, _ := v.(api.ID)
	return id
}
