package cli

import (
	"fmt"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"imgsim/internal/adapter/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// runStats opens the store directly; no model is needed to count records.
func runStats(cmd *cobra.Command, args []string) error {
	st, err := store.Open(cfg.Store.Path, cfg.Store.Dimension)
	if err != nil {
		return err
	}

	if err := st.Load(); err != nil {
		zlog.Warn().Err(err).Msg("store load failed")
		fmt.Printf("Store:     %s (not loadable)\n", cfg.Store.Path)
		fmt.Printf("Dimension: %d\n", st.Dimension())
		fmt.Println("Records:   0")
		return nil
	}

	fmt.Printf("Store:     %s\n", cfg.Store.Path)
	fmt.Printf("Dimension: %d\n", st.Dimension())
	fmt.Printf("Records:   %d\n", st.Count())
	return nil
}
