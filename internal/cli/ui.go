package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yildizm/TransformoDocs/internal/present"
	"github.com/yildizm/TransformoDocs/internal/ui"
)

var uiView string

func newUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui [file]",
		Short: "Start the interactive terminal UI",
		Long: `Start the interactive terminal UI.

The upload view sends a document to the processing service and shows the
structured result. From there ctrl+p opens the MRC check view.

Examples:
  transformo ui
  transformo ui report.pdf
  transformo ui --view verify`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runUI(cmd, path, uiView)
		},
	}

	cmd.Flags().StringVar(&uiView, "view", "", "start view (upload, verify)")

	return cmd
}

func runUI(cmd *cobra.Command, initialPath, view string) error {
	cfg := GetGlobalConfig()

	if view == "" {
		view = cfg.UI.StartView
	}
	route, err := ui.ParseRoute(view)
	if err != nil {
		return err
	}

	// the terminal belongs to the UI, so logs go to the configured file or nowhere
	logOut, closeLog, err := openUILog(cfg.Output.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()
	log := newLogger(logOut)

	c, err := newClient(cfg.Service, log)
	if err != nil {
		return err
	}

	// OSC 52 sequences go through the same locked writer as the renderer
	term := ui.NewTerminal(os.Stdout)
	clipboard, err := present.NewClipboard(cfg.Clipboard.Backend, term)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	return ui.Run(ui.Options{
		Context:             ctx,
		Processor:           c,
		Checker:             c,
		Clipboard:           clipboard,
		Logger:              log,
		Output:              term,
		StartView:           route,
		InitialPath:         initialPath,
		Color:               useColor(os.Stdout),
		NoticeDuration:      cfg.Clipboard.NoticeDuration,
		ErrorNoticeDuration: cfg.UI.ErrorNoticeDuration,
	})
}

func openUILog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	// #nosec G304 - log path comes from the user's own configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
