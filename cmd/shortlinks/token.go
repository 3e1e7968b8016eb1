package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joestump/shortlinks/internal/auth"
	"github.com/joestump/shortlinks/internal/store"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API tokens",
	}
	cmd.AddCommand(newTokenCreateCmd())
	cmd.AddCommand(newTokenRevokeCmd())
	return cmd
}

func newTokenCreateCmd() *cobra.Command {
	var email, name string
	var expiresIn time.Duration
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue an API token for a user; the token is printed once",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			u, err := store.NewUserStore(e.db).GetByEmail(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("user %q: %w", email, err)
			}

			plaintext, hash, err := auth.GenerateToken()
			if err != nil {
				return err
			}
			var expiresAt *time.Time
			if expiresIn > 0 {
				t := time.Now().Add(expiresIn)
				expiresAt = &t
			}
			rec, err := auth.NewSQLTokenStore(e.db).Create(cmd.Context(), u.ID, name, hash, expiresAt)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "token %s (%s) for %s\n", rec.Name, rec.ID, u.Email)
			if rec.ExpiresAt.Valid {
				fmt.Fprintf(out, "expires %s\n", rec.ExpiresAt.Time.Format(time.RFC3339))
			}
			_, err = fmt.Fprintln(out, plaintext)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the token owner")
	cmd.Flags().StringVar(&name, "name", "cli", "token name")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "token lifetime, e.g. 720h; zero never expires")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newTokenRevokeCmd() *cobra.Command {
	var email, id string
	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke one of a user's API tokens by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			u, err := store.NewUserStore(e.db).GetByEmail(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("user %q: %w", email, err)
			}
			if err := auth.NewSQLTokenStore(e.db).Revoke(cmd.Context(), id, u.ID); err != nil {
				return fmt.Errorf("token %q: %w", id, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "revoked token %s\n", id)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the token owner")
	cmd.Flags().StringVar(&id, "id", "", "token id, as printed by token create")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
