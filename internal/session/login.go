package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/blackwell-systems/perpusctl/internal/api"
)

// Login authenticates against the backend and stores the new session.
func Login(ctx context.Context, c *api.Client, s *Store, username, password string) (User, error) {
	data, err := c.Login(ctx, username, password)
	if err != nil {
		return User{}, err
	}

	u := User{
		ID:       data.ID.String(),
		Username: data.Username,
		Email:    data.Email,
		Role:     ParseRole(data.Role),
		Nama:     data.Nama,
		NIM:      data.NIM,
		Jurusan:  data.Jurusan,
	}
	// Older backends leave role out of the body but put it in the token.
	if data.Role == "" {
		if claims, err := InspectToken(data.Token); err == nil && claims.Role != "" {
			u.Role = ParseRole(claims.Role)
		}
	}

	if err := s.Save(data.Token, u); err != nil {
		return User{}, fmt.Errorf("saving session: %w", err)
	}
	return u, nil
}

// Logout notifies the server and clears the local session. The local session
// is cleared even when the server call fails.
func Logout(ctx context.Context, c *api.Client, s *Store, log *slog.Logger) error {
	if c.HasToken() {
		if err := c.Logout(ctx); err != nil {
			log.Warn("server logout failed", "err", err)
		}
	}
	return s.Invalidate()
}
