package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/registry"
	"github.com/tally-dev/tally/internal/store/sqlite"
)

func newInitCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new tally project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, name)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runInit(cmd *cobra.Command, dir, name string) error {
	cfg := config.Default(name)
	if err := config.Save(filepath.Join(dir, "tally.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	st, err := sqlite.Open(filepath.Join(dir, cfg.Storage.Path))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close() //nolint:errcheck

	ctx := cmd.Context()
	if err := st.Setup(ctx); err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	if err := seedChart(ctx, registry.NewService(st)); err != nil {
		return fmt.Errorf("seeding chart of accounts: %w", err)
	}

	fmt.Printf("Initialized tally project at %s (%d accounts)\n", dir, len(defaultChart))
	return nil
}
