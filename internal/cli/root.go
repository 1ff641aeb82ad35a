package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"imgsim/config"
	"imgsim/internal/adapter/embedding"
	"imgsim/internal/adapter/fs"
	"imgsim/internal/adapter/onnx"
	"imgsim/internal/adapter/store"
	"imgsim/internal/usecase"
)

var (
	cfgFile   string
	storePath string
	modelPath string
	cfg       *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "imgsim",
	Short: "Index a folder of images and search them by visual similarity",
	Long: `imgsim builds a searchable index of images by embedding each image with a
pretrained model and answers nearest-neighbor queries over the stored vectors.

Example usage:
  imgsim index ./photos          # Index a folder of images
  imgsim query ./photos/cat.jpg  # Find the most similar indexed images
  imgsim stats                   # Show store record count`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, werr := os.Getwd()
			if werr != nil {
				return fmt.Errorf("failed to get working directory: %w", werr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if storePath != "" {
			cfg.Store.Path = storePath
		}
		if modelPath != "" {
			cfg.Model.Path = modelPath
		}

		setupLogging(cfg.Logging.Level)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./imgsim.yaml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "db", "", "store file path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&modelPath, "model", "", "model file path (overrides config)")
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// newSession wires up a full session: model, embedder, store and lister. The
// returned cleanup releases the model runtime.
func newSession() (*usecase.Session, func(), error) {
	model, err := onnx.NewSession(onnx.Config{
		ModelPath:   cfg.Model.Path,
		InputName:   cfg.Model.Input,
		OutputName:  cfg.Model.Output,
		LibraryPath: cfg.Model.Library,
		Dimension:   cfg.Store.Dimension,
	})
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(cfg.Store.Path, cfg.Store.Dimension)
	if err != nil {
		model.Close()
		return nil, nil, err
	}

	session := usecase.NewSession(st, embedding.NewImageEmbedder(model), fs.NewLister(cfg.Index.Includes))
	cleanup := func() {
		if err := model.Close(); err != nil {
			zlog.Warn().Err(err).Msg("failed to close model session")
		}
	}
	return session, cleanup, nil
}
