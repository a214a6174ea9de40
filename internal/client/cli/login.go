package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *Cli) loginCommand() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an access token for the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				var err error
				token, err = c.io.ReadPassword("Access token: ")
				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}
			}
			if token == "" {
				return fmt.Errorf("token cannot be empty")
			}

			session, err := c.authService.Login(cmd.Context(), token, c.serverURL)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			c.io.Println("✓ Logged in")
			c.io.Printf("Actor:   %s\n", session.ActorID)
			if !session.ExpiresAt.IsZero() {
				c.io.Printf("Expires: %s\n", session.ExpiresAt.Format(timeLayout))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Access token (prompted when omitted)")
	return cmd
}

func (c *Cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.authService.Logout(cmd.Context()); err != nil {
				return err
			}
			c.io.Println("✓ Logged out")
			return nil
		},
	}
}
