package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/kimlik/internal/filter"
	"github.com/KilimcininKorOglu/kimlik/internal/identity"
	"github.com/KilimcininKorOglu/kimlik/internal/search"
	"github.com/KilimcininKorOglu/kimlik/internal/store"
)

type searchOutput struct {
	Users         []*identity.User `json:"users"`
	ContinueToken int              `json:"continueToken"`
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search users of a realm by attribute",
		Long: `Runs a paginated attribute search against the configured store and prints
the page as JSON. Each filter flag takes name=value and may be repeated.`,
		Example: `  kimlik search --realm acme --starts-with KATOTTG=UA07 --limit 10
  kimlik search --realm acme --prefix-of hierarchy=100.200.301 --cursor 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			realm, _ := cmd.Flags().GetString("realm")
			if err := identity.ValidateRealm(realm); err != nil {
				return err
			}

			set, err := filterFromFlags(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			cursor, _ := cmd.Flags().GetInt("cursor")

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

			searcher := search.NewSearcher(search.Config{MaxLimit: cfg.Search.MaxLimit}, toolLogger(cfg))
			page, err := searcher.Search(ctx, store.Scoped(st, realm), search.Request{
				Filter: set,
				Limit:  limit,
				Cursor: cursor,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(searchOutput{Users: page.Users, ContinueToken: page.NextCursor})
		},
	}
	cmd.Flags().String("realm", "", "realm to search (required)")
	cmd.Flags().StringArray("equals", nil, "name=value, attribute has a value equal to value")
	cmd.Flags().StringArray("starts-with", nil, "name=value, attribute has a value starting with value")
	cmd.Flags().StringArray("prefix-of", nil, "name=value, attribute has a value that value starts with")
	cmd.Flags().Int("limit", 0, "page size, 0 returns every match")
	cmd.Flags().Int("cursor", 0, "continue token of the previous page")
	_ = cmd.MarkFlagRequired("realm")
	return cmd
}

func filterFromFlags(cmd *cobra.Command) (filter.Set, error) {
	var set filter.Set
	for _, f := range []struct {
		flag string
		dst  *filter.AttributeMap
	}{
		{"equals", &set.Equals},
		{"starts-with", &set.StartsWith},
		{"prefix-of", &set.IsPrefixOf},
	} {
		pairs, _ := cmd.Flags().GetStringArray(f.flag)
		m, err := parsePairs(pairs)
		if err != nil {
			return filter.Set{}, fmt.Errorf("--%s: %w", f.flag, err)
		}
		*f.dst = m
	}
	return set, nil
}

// parsePairs groups name=value pairs by name, keeping value order.
func parsePairs(pairs []string) (filter.AttributeMap, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	m := make(filter.AttributeMap)
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", p)
		}
		m[name] = append(m[name], value)
	}
	return m, nil
}
