package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yildizm/TransformoDocs/internal/flow"
)

var (
	verifyStdin bool
	verifyFile  string
)

// maxVerifyInput bounds text read from stdin or a file
const maxVerifyInput = 8 << 20

func newVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [text]",
		Short: "Check whether text is machine-readable code",
		Long: `Submit a text snippet to the MRC classifier and print its verdict.

The text is taken from the argument, from --file, or from stdin with --stdin.

Examples:
  transformo verify "SGVsbG8gd29ybGQ="
  pbpaste | transformo verify --stdin
  transformo verify --file snippet.txt --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runVerifyCommand,
	}

	cmd.Flags().BoolVar(&verifyStdin, "stdin", false, "read the text from stdin")
	cmd.Flags().StringVarP(&verifyFile, "file", "f", "", "read the text from a file")

	return cmd
}

func runVerifyCommand(cmd *cobra.Command, args []string) error {
	text, err := verifyInput(cmd, args)
	if err != nil {
		return err
	}

	cfg := GetGlobalConfig()
	log := newLogger(cmd.ErrOrStderr())
	c, err := newClient(cfg.Service, log)
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

	verify := flow.NewVerify(c, log)
	defer verify.Close()

	verify.SetInput(text)
	state, runErr := flow.RunVerify(ctx, verify)

	data, err := f.FormatVerify(state)
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	if err := writeOutput(out, data); err != nil {
		return err
	}

	if runErr != nil {
		return flowError(state.ErrorMessage, runErr)
	}
	return nil
}

func verifyInput(cmd *cobra.Command, args []string) (string, error) {
	sources := 0
	if len(args) == 1 {
		sources++
	}
	if verifyStdin {
		sources++
	}
	if verifyFile != "" {
		sources++
	}
	if sources > 1 {
		return "", fmt.Errorf("use only one of [text], --stdin and --file")
	}

	switch {
	case verifyStdin:
		return readAllLimited(cmd.InOrStdin())
	case verifyFile != "":
		if err := validateFilePath(verifyFile); err != nil {
			return "", err
		}
		f, err := openFile(verifyFile)
		if err != nil {
			return "", err
		}
		defer func() { _ = f.Close() }()
		return readAllLimited(f)
	case len(args) == 1:
		return args[0], nil
	default:
		// empty input settles as a failed check without a request
		return "", nil
	}
}

func readAllLimited(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxVerifyInput+1))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if len(data) > maxVerifyInput {
		return "", fmt.Errorf("input exceeds %d bytes", maxVerifyInput)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
