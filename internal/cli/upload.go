package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/TransformoDocs/internal/client"
	"github.com/yildizm/TransformoDocs/internal/flow"
	"github.com/yildizm/TransformoDocs/internal/present"
)

var (
	uploadCopy       bool
	uploadTimeout    time.Duration
	uploadOutputFile string
)

func newUploadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document and print the structured result",
		Long: `Upload one document to the document-processing service and print the
structured result in the selected output format.

Examples:
  transformo upload report.pdf
  transformo upload --output json invoice.docx
  transformo upload --copy notes.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runUploadCommand,
	}

	cmd.Flags().BoolVar(&uploadCopy, "copy", false, "copy the serialized result to the clipboard")
	cmd.Flags().DurationVar(&uploadTimeout, "timeout", 30*time.Second, "request timeout")
	cmd.Flags().StringVar(&uploadOutputFile, "output-file", "", "save output to file instead of stdout")

	return cmd
}

func runUploadCommand(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	svc := cfg.Service
	if cmd.Flag("timeout").Changed {
		svc.Timeout = uploadTimeout
	}

	log := newLogger(cmd.ErrOrStderr())
	c, err := newClient(svc, log)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	f, err := newFormatter(out)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	upload := flow.NewUpload(c, log)
	defer upload.Close()

	upload.Select(client.LocalFile(args[0]))
	state, runErr := flow.RunUpload(ctx, upload)

	data, err := f.FormatUpload(state)
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	if err := emit(out, uploadOutputFile, data); err != nil {
		return err
	}

	if runErr != nil {
		return flowError(state.ErrorMessage, runErr)
	}

	if uploadCopy {
		clipboard, err := present.NewClipboard(cfg.Clipboard.Backend, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		copyErr := present.CopyToClipboard(clipboard, state.Result)
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), present.CopyNotice(copyErr))
		if copyErr != nil && isVerbose() {
			log.Warn("copy failed: %v", copyErr)
		}
	}

	return nil
}

// flowError reports a settled failure with its display message first
func flowError(message string, err error) error {
	if message == "" {
		return err
	}
	return fmt.Errorf("%s: %w", message, err)
}

// emit writes data to path, or to out when path is empty
func emit(out io.Writer, path string, data []byte) error {
	if path == "" {
		return writeOutput(out, data)
	}

	cleanPath := filepath.Clean(path)
	if err := os.WriteFile(cleanPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Output saved to: %s\n", cleanPath)
	}
	return nil
}
