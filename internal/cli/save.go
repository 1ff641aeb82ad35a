package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"imgsim/internal/adapter/store"
	"imgsim/internal/domain"
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Rewrite the store file from its current contents",
	Long: `Load the store and persist it back to its configured path. Useful for
rewriting a store file in place (for example after copying it between
machines).`,
	RunE: runSave,
}

func init() {
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	st, err := store.Open(cfg.Store.Path, cfg.Store.Dimension)
	if err != nil {
		return err
	}

	if err := st.Load(); err != nil {
		var loadErr *domain.StoreLoadError
		if errors.As(err, &loadErr) {
			return fmt.Errorf("nothing to save: %w", err)
		}
		return err
	}

	if err := st.Save(); err != nil {
		return err
	}

	fmt.Printf("Store saved to: %s (%d records)\n", cfg.Store.Path, st.Count())
	return nil
}
