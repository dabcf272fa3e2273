// Package devserver is an in-memory implementation of the library backend's
// REST contract. It backs `perpusctl dev-server` and the end-to-end tests.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Options configures a Server. Zero fields take the defaults noted.
type Options struct {
	// Secret signs issued tokens. Default "perpusctl-dev".
	Secret []byte
	// Now is the server clock. Default time.Now.
	Now func() time.Time
	// TwoStepReturn makes borrower returns wait for admin approval.
	TwoStepReturn bool
	// FinePerDay is charged per late day by the overdue sweep. Default 1000.
	FinePerDay int
	// BcryptCost for account passwords. Default bcrypt.DefaultCost.
	BcryptCost int
	// Seed loads the demo library.
	Seed bool
	// AllowOrigins lists browser origins allowed by CORS. Empty allows any.
	AllowOrigins []string
	Log  *slog.Logger
}

func (o *Options) defaults() {
	if len(o.Secret) == 0 {
		o.Secret = []byte("perpusctl-dev")
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.FinePerDay <= 0 {
		o.FinePerDay = 1000
	}
	if o.BcryptCost == 0 {
		o.BcryptCost = bcrypt.DefaultCost
	}
	if o.Log == nil {
		o.Log = slog.New(slog.DiscardHandler)
	}
}

// Server is the dev backend.
type Server struct {
	opts   Options
	store  *Store
	engine *gin.Engine
}

// New builds a Server with its routes mounted under /api.
func New(opts Options) (*Server, error) {
	opts.defaults()
	s := &Server{opts: opts, store: newStore(opts)}
	if opts.Seed {
		if err := s.store.seed(); err != nil {
			return nil, fmt.Errorf("seeding demo data: %w", err)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog(), cors.New(s.corsConfig()))
	s.routes(r.Group("/api"))
	s.engine = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Store exposes the backing state.
func (s *Server) Store() *Store { return s.store }

// Serve accepts connections on l until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(l) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.opts.Log.Info("dev server listening", "addr", l.Addr().String())
	return s.Serve(ctx, l)
}

func (s *Server) corsConfig() cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(s.opts.AllowOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = s.opts.AllowOrigins
	}
	return c
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.opts.Log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"request_id", c.GetHeader("X-Request-ID"),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) routes(r *gin.RouterGroup) {
	r.POST("/auth/login", s.login)

	authed := r.Group("", s.requireAuth())
	authed.GET("/auth/logout", s.logout)

	user := authed.Group("/user")
	user.POST("/buku/find-all", s.findBooks)
	user.POST("/buku/find/:id", s.findBook)
	user.GET("/status-buku/:id", s.bookStatus)
	user.POST("/kategori", s.listCategories)
	user.POST("/profile/me", s.profile)
	user.POST("/peminjaman", s.createLoan)
	user.POST("/peminjaman/find-all", s.myLoans)
	user.POST("/peminjaman/:id", s.myLoan)
	user.POST("/peminjaman/:id/return", s.requestReturn)

	admin := authed.Group("/admin", requireRole(RoleAdmin))
	admin.POST("/profile/me", s.profile)
	admin.POST("/buku/find-all", s.findBooks)
	admin.POST("/buku/find/:id", s.findBook)
	admin.GET("/status-buku/:id", s.bookStatus)
	admin.POST("/buku/create", s.saveBook)
	admin.POST("/buku/edit", s.saveBook)
	admin.DELETE("/buku/:id", s.deleteBook)

	admin.POST("/kategori/find-all", s.findCategories)
	admin.POST("/kategori/find-by-id", s.findCategory)
	admin.POST("/kategori/create", s.saveCategory)
	admin.POST("/kategori/edit", s.saveCategory)
	admin.DELETE("/kategori/:id", s.deleteCategory)

	admin.POST("/mahasiswa/find-all", s.findStudents)
	admin.POST("/mahasiswa/find/:id", s.findStudent)
	admin.POST("/mahasiswa/create", s.createStudent)
	admin.POST("/mahasiswa/update", s.updateStudent)
	admin.DELETE("/mahasiswa/:id", s.deleteStudent)

	admin.POST("/peminjaman/find-all", s.allLoans)
	admin.POST("/peminjaman/recent-peminjaman", s.recentLoans)
	admin.POST("/peminjaman/check-overdue", s.checkOverdue)
	admin.POST("/peminjaman/:id", s.anyLoan)
	admin.POST("/peminjaman/:id/edit", s.editLoan)
	admin.POST("/peminjaman/:id/approve-return", s.approveReturn)
	admin.DELETE("/peminjaman/:id", s.deleteLoan)

	authed.POST("/dashboard/stats", requireRole(RoleAdmin), s.stats)
}
