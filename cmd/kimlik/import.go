package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/kimlik/internal/identity"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import users from JSON",
		Long:  "Imports a JSON array of users from a file (or stdin if no file given) into a realm. Users are appended in file order.",
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

			users, err := readUsers(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := openStore(ctx, &cfg.Storage)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			logger := toolLogger(cfg).WithSource("import")
			for i, u := range users {
				if u.Realm == "" {
					u.Realm = realm
				}
				if u.Realm != realm {
					return fmt.Errorf("user %d: realm %q does not match %q", i, u.Realm, realm)
				}
				u.Ordinal = 0
				if err := st.Put(ctx, u); err != nil {
					return fmt.Errorf("user %d: %w", i, err)
				}
				logger.Debug("user imported", "username", u.Username, "ordinal", u.Ordinal)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d users into realm %s\n", len(users), realm)
			return nil
		},
	}
	cmd.Flags().String("realm", "", "target realm (required)")
	_ = cmd.MarkFlagRequired("realm")
	return cmd
}

// readUsers decodes a JSON array of users from a file argument or stdin.
func readUsers(stdin io.Reader, args []string) ([]*identity.User, error) {
	r := stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var users []*identity.User
	if err := json.NewDecoder(r).Decode(&users); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	return users, nil
}
