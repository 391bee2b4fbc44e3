package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lumi-cli/internal/adapters/codec"
	"github.com/kamal-hamza/lumi-cli/internal/adapters/repository"
	"github.com/kamal-hamza/lumi-cli/internal/core/services"
	"github.com/kamal-hamza/lumi-cli/pkg/appdir"
	"github.com/kamal-hamza/lumi-cli/pkg/config"
	"github.com/kamal-hamza/lumi-cli/pkg/ui"
)

var (
	appDirs   *appdir.Dirs
	appConfig *config.Config

	// Global flags
	rootDir string

	// Adapters
	imageRepo  *repository.FolderRepository
	imageCodec *codec.Codec

	// Services
	adjustEngine     *services.AdjustEngine
	listService      *services.ListService
	documentService  *services.DocumentService
	histogramService *services.HistogramService
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lumi",
	Short: "Lumi - browse images and adjust brightness and contrast",
	Long: ui.StyleTitle.Render("Lumi") + " - terminal image adjuster\n\n" +
		"Browse a folder of images, tune brightness and contrast with live previews,\n" +
		"and export the result. Originals are never modified.",
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "Image folder (default: config default_dir or current directory)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(adjustCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(histogramCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads configuration and wires adapters into services
func initializeApp(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	d, err := appdir.New()
	if err != nil {
		return fmt.Errorf("failed to resolve directories: %w", err)
	}
	appDirs = d

	cfg, err := config.Load(appDirs.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg
	ui.SetTheme(appConfig.ColorTheme)

	root := rootDir
	if root == "" {
		root = appConfig.DefaultDir
	}
	if root == "" {
		root = "."
	}

	imageRepo = repository.NewFolderRepository(root, appConfig.ShowHidden, appConfig.Extensions)
	imageCodec = codec.New(appConfig.JPEGQuality).WithMaxPixels(appConfig.MaxImagePixels)

	adjustEngine = services.NewAdjustEngine()
	listService = services.NewListService(imageRepo)
	documentService = services.NewDocumentService(imageCodec, imageCodec, adjustEngine)
	histogramService = services.NewHistogramService(adjustEngine)

	return nil
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
