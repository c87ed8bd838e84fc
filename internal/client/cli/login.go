package cli

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/iudanet/classtrack/internal/client/storage"
)

func (c *Cli) newLoginCommand() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLogin(cmd, username)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name (prompted when empty)")

	return cmd
}

func (c *Cli) runLogin(cmd *cobra.Command, username string) error {
	ctx := cmd.Context()

	username, err := c.promptUsername(username)
	if err != nil {
		return err
	}
	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	client := c.anonymousClient()
	tok, err := client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	expiresAt, err := tokenExpiry(tok.AccessToken)
	if err != nil {
		return err
	}

	// The server checks the stored role, so ask it rather than trusting the claim
	me, err := client.Me(ctx, tok.AccessToken)
	if err != nil {
		return err
	}

	err = c.store.SaveAuth(ctx, &storage.AuthData{
		Username:    me.Username,
		Role:        me.Role,
		AccessToken: tok.AccessToken,
		ServerURL:   c.serverURL,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save auth data: %w", err)
	}

	c.io.Printf("Logged in as %s (%s).\n", me.Username, me.Role)
	c.io.Printf("Session expires at %s.\n", formatTime(expiresAt))
	return nil
}

// tokenExpiry reads exp without verifying the signature. The client has no
// key; the value only drives local expiry hints.
func tokenExpiry(raw string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, fmt.Errorf("server returned an unreadable token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("server returned a token without expiry")
	}
	return claims.ExpiresAt.Time, nil
}
