package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/kimlik/internal/rest"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token signed with the configured secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := validate(cfg); err != nil {
				return err
			}

			subject, _ := cmd.Flags().GetString("subject")
			realm, _ := cmd.Flags().GetString("realm")
			roles, _ := cmd.Flags().GetStringSlice("role")
			if ttl, _ := cmd.Flags().GetDuration("ttl"); ttl > 0 {
				cfg.Auth.TokenTTL = ttl
			}

			auth := rest.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
			token, expiresAt, err := auth.IssueToken(subject, realm, roles)
			if err != nil {
				return err
			}

			if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token:   %s\n", token)
			fmt.Fprintf(cmd.OutOrStdout(), "Expires: %s\n", expiresAt.Format("2006-01-02T15:04:05Z07:00"))
			return nil
		},
	}
	cmd.Flags().String("subject", "admin", "token subject")
	cmd.Flags().String("realm", "", "realm the token is issued for")
	cmd.Flags().StringSlice("role", []string{rest.RealmAdminRole}, "granted roles")
	cmd.Flags().Duration("ttl", 0, "token lifetime (default from config)")
	cmd.Flags().BoolP("quiet", "q", false, "print only the token")
	return cmd
}
