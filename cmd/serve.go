package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/lumi-cli/internal/adapters/server"
	"github.com/kamal-hamza/lumi-cli/internal/core/services"
	"github.com/kamal-hamza/lumi-cli/pkg/ui"
)

var (
	serveAddr        string
	serveMaxSessions int
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Serve the image folder and live adjustments over HTTP",
	Long: `Start a JSON API for listing images, opening documents, changing
brightness and contrast, and fetching the adjusted image as PNG.

Routes:
  GET    /health
  GET    /api/images?ext=&sort=&reverse=
  GET    /api/documents
  POST   /api/documents                         {"name": "photo.jpg"}
  GET    /api/documents/{id}
  PUT    /api/documents/{id}/properties/{name}  {"value": 70}
  DELETE /api/documents/{id}/edits
  GET    /api/documents/{id}/image[?original=1]
  DELETE /api/documents/{id}`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: serve_addr from config)")
	serveCmd.Flags().IntVar(&serveMaxSessions, "max-sessions", -1, "Maximum open documents (default: max_sessions from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		imageRepo.SetRoot(args[0])
	}

	addr := serveAddr
	if addr == "" {
		addr = appConfig.ServeAddr
	}
	limit := serveMaxSessions
	if limit < 0 {
		limit = appConfig.MaxSessions
	}

	ctx, stop := signal.NotifyContext(getContext(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := services.NewSessionRegistry(documentService, limit)
	srv := server.New(listService, documentService, sessions, log.New(os.Stderr, "lumi ", log.LstdFlags))

	fmt.Println(ui.FormatInfo(fmt.Sprintf("Serving %s on http://%s", imageRepo.Root(), addr)))
	fmt.Println(ui.FormatMuted("Press Ctrl+C to stop"))

	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess("Server stopped"))
	return nil
}
