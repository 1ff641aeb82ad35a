package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"imgsim/internal/domain"
	"imgsim/internal/usecase"
)

var (
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query <image>",
	Short: "Find the images most similar to a query image",
	Long: `Embed the query image and return the k nearest indexed images with their
distances (smaller is more similar).

Examples:
  imgsim query ./photos/cat.jpg
  imgsim query ./photos/cat.jpg -k 10 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
}

func runQuery(cmd *cobra.Command, args []string) error {
	session, cleanup, err := newSession()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := session.Open(); err != nil {
		return err
	}

	topK := cfg.Search.TopK
	if queryTopK > 0 {
		topK = queryTopK
	}

	results, err := session.Query(args[0], topK)
	if err != nil {
		if errors.Is(err, domain.ErrNotReady) {
			return fmt.Errorf("no store open. Run 'imgsim index' first")
		}
		return fmt.Errorf("query failed: %w", err)
	}

	slots := usecase.Assemble(results, topK)

	if queryJSON {
		type jsonSlot struct {
			Path     string  `json:"path"`
			Distance float32 `json:"distance"`
		}
		out := make([]jsonSlot, len(slots))
		for i, s := range slots {
			out[i] = jsonSlot{Path: s.Path, Distance: s.Distance}
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	if len(slots) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d of %d requested results for: %s\n\n", len(slots), topK, args[0])
	for i := 0; i < topK; i++ {
		if i < len(slots) {
			fmt.Printf("  [%d] %s (distance: %.4f)\n", i+1, slots[i].Path, slots[i].Distance)
		} else {
			fmt.Printf("  [%d] -\n", i+1)
		}
	}
	return nil
}
