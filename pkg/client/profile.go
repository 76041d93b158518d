package client

import (
	"context"
)

// GetProfile fetches an account by username.
func (c *Client) GetProfile(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.get(ctx, "/auth/profile/"+username, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile saves profile edits for the given username.
func (c *Client) UpdateProfile(ctx context.Context, username, email, firstName, lastName string) (*User, error) {
	var user User
	err := c.put(ctx, "/auth/profile/"+username, nil, map[string]string{
		"email":     email,
		"firstName": firstName,
		"lastName":  lastName,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ForgotPassword requests a password-reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.post(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

// ResetPassword redeems a reset token for a new password.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	return c.post(ctx, "/auth/reset-password", map[string]string{
		"token":       token,
		"newPassword": newPassword,
	}, nil)
}

// ChangePassword rotates the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return c.post(ctx, "/auth/change-password", map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}, nil)
}

// SendContactMessage submits the contact form.
func (c *Client) SendContactMessage(ctx context.Context, name, email, message string) error {
	return c.post(ctx, "/notifications/contact", map[string]string{
		"name":    name,
		"email":   email,
		"message": message,
	}, nil)
}
