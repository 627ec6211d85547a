package cli

import (
	"github.com/spf13/cobra"

	"github.com/yildizm/TransformoDocs/internal/server"
)

var serveAddr string

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference document-processing service",
		Long: `Run a local document-processing service that extracts text from PDF,
DOCX, XLSX, plain text and ZIP uploads.

POST /upload accepts a multipart "file" field and answers {"content": ...}
or {"error": ...}. GET /healthz and the prometheus metrics endpoint are
served alongside. The MRC classifier is not part of this service.

Examples:
  transformo serve
  transformo serve --addr 127.0.0.1:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetGlobalConfig().Serve
			if cmd.Flag("addr").Changed {
				cfg.Addr = serveAddr
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			return server.New(cfg, newLogger(cmd.ErrOrStderr())).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")

	return cmd
}
