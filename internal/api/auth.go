package api

import (
	"context"
	"fmt"
)

// LoginData is the data block of a successful login. The token is embedded
// alongside the user fields.
type LoginData struct {
	ID       ID     `json:"id"`
	Role     string `json:"role"`
	Nama     string `json:"nama"`
	Email    string `json:"email"`
	Token    string `json:"token"`
	Username string `json:"username"`
	NIM      string `json:"nim,omitempty"`
	Jurusan  string `json:"jurusan,omitempty"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginData, error) {
	var out LoginData
	if err := c.Post(ctx, "/auth/login", loginRequest{Username: username, Password: password}, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &Error{Message: "login response carried no token", Kind: ErrMalformed}
	}
	return &out, nil
}

// Logout tells the server the token is done with.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.Get(ctx, "/auth/logout", nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Profile is the signed-in account as the profile endpoints return it.
type Profile struct {
	ID               ID     `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	Nama             string `json:"nama,omitempty"`
	NIM              string `json:"nim,omitempty"`
	Jurusan          string `json:"jurusan,omitempty"`
	Alamat           string `json:"alamat,omitempty"`
	PhoneNumber      string `json:"phoneNumber,omitempty"`
	Foto             string `json:"foto,omitempty"`
	TanggalBergabung string `json:"tanggalBergabung,omitempty"`
}

// MyProfile fetches the current account; admin selects the admin scope.
func (c *Client) MyProfile(ctx context.Context, admin bool) (*Profile, error) {
	scope := "user"
	if admin {
		scope = "admin"
	}
	var out Profile
	if err := c.Post(ctx, Path(scope, "profile", "me"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
