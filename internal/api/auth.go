package api

import (
	"context"
	"fmt"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the outcome of a successful login or registration.
type LoginResult struct {
	Token string
	Email string
}

// Register creates a new account. The returned token is already usable but
// the account still needs email verification.
func (c *Client) Register(ctx context.Context, email, password string) (LoginResult, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.post(ctx, "/api/user/register", nil, credentials{Email: email, Password: password}, &out, "Could not register.")
	if err != nil {
		return LoginResult{}, err
	}
	if out.Token == "" {
		return LoginResult{}, fmt.Errorf("%w: no token in register response", ErrDecode)
	}
	return LoginResult{Token: out.Token, Email: email}, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	err := c.post(ctx, "/api/user/login", nil, credentials{Email: email, Password: password}, &out, "Could not log in.")
	if err != nil {
		return LoginResult{}, err
	}
	if out.Token == "" {
		return LoginResult{}, fmt.Errorf("%w: no token in login response", ErrDecode)
	}

	res := LoginResult{Token: out.Token, Email: out.User.Email}
	if res.Email == "" {
		res.Email = email
	}
	return res, nil
}

// Verify submits the email verification code. It returns false when the
// server acknowledges the request but rejects the code.
func (c *Client) Verify(ctx context.Context, code string) (bool, error) {
	var out struct {
		Success bool `json:"success"`
	}
	body := struct {
		Code string `json:"code"`
	}{Code: code}

	err := c.put(ctx, "/api/user/validation", nil, body, &out, "Could not verify the code.")
	if err != nil {
		return false, err
	}
	return out.Success, nil
}
