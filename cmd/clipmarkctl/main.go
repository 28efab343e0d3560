// Command clipmarkctl inspects clipmark's config file, its bookmark database
// and accelerator strings without starting the desktop app.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPathFlag string
	dbPathFlag     string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clipmarkctl",
		Short: "Inspect clipmark configuration, shortcuts and bookmarks",
		Long: `clipmarkctl reads the same config file and database as the clipmark
desktop app. It never modifies either; edit the YAML file directly and the
running app reloads it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "config file path (default: the app's config.yaml)")
	cmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "database path (default: clipmark.db next to the config)")

	cmd.AddCommand(newAccelCmd(), newConfigCmd(), newBookmarksCmd(), newHistoryCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
