package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/kimlik/internal/config"
	"github.com/KilimcininKorOglu/kimlik/internal/logging"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "kimlik",
		Short:        "User attribute search service",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "path to configuration file")

	root.AddCommand(
		newServeCmd(),
		newImportCmd(),
		newExportCmd(),
		newSearchCmd(),
		newTokenCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the file named by --config, or the defaults when it is
// empty. Environment overrides apply in both cases.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		cfg, err := config.LoadDefaults()
		return cfg, "", err
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, "", fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, path, nil
}

func validate(cfg *config.Config) error {
	errs := config.ValidateConfig(cfg)
	if len(errs) == 0 {
		return nil
	}
	msg := "configuration errors:"
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}

// toolLogger logs to stderr so command output on stdout stays machine readable.
func toolLogger(cfg *config.Config) logging.Logger {
	return logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: "stderr",
	})
}
