package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/kimlik/internal/identity"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export users of a realm as JSON",
		Long:  "Writes every user of a realm in ordinal order as a JSON array that import accepts. Writes to stdout if no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			realm, _ := cmd.Flags().GetString("realm")
			if err := identity.ValidateRealm(realm); err != nil {
				return err
			}

			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := validate(cfg); err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := openStore(ctx, &cfg.Storage)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			users, err := st.FetchAll(ctx, realm)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if len(args) == 1 {
				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			if err := enc.Encode(users); err != nil {
				return fmt.Errorf("encode JSON: %w", err)
			}

			toolLogger(cfg).WithSource("export").Info("realm exported", "realm", realm, "users", len(users))
			return nil
		},
	}
	cmd.Flags().String("realm", "", "realm to export (required)")
	_ = cmd.MarkFlagRequired("realm")
	return cmd
}
