package cli

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/TransformoDocs/internal/inbox"
)

var (
	watchExtensions  []string
	watchDebounce    time.Duration
	watchInitialScan bool
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Upload every document dropped into a directory",
		Long: `Watch a directory tree and upload each new or changed document to the
document-processing service, printing one result per document.

Uses file system notifications; bursts of writes to the same file are
coalesced. Press Ctrl+C to stop watching.

Examples:
  transformo watch ./inbox
  transformo watch --ext pdf,docx --initial-scan ./scans`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().StringSliceVar(&watchExtensions, "ext", nil, "allowed extensions (default from config)")
	cmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "coalesce writes within this window (default from config)")
	cmd.Flags().BoolVar(&watchInitialScan, "initial-scan", false, "also upload documents already present")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	watchCfg := inbox.Config{
		Dir:         args[0],
		Extensions:  cfg.Watch.Extensions,
		Debounce:    cfg.Watch.Debounce,
		InitialScan: cfg.Watch.InitialScan,
	}
	if cmd.Flag("ext").Changed {
		watchCfg.Extensions = watchExtensions
	}
	if cmd.Flag("debounce").Changed {
		watchCfg.Debounce = watchDebounce
	}
	if cmd.Flag("initial-scan").Changed {
		watchCfg.InitialScan = watchInitialScan
	}

	log := newLogger(cmd.ErrOrStderr())
	watcher, err := inbox.NewWatcher(watchCfg, log)
	if err != nil {
		return err
	}

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

	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Watching directory: %s\n", watchCfg.Dir)
		fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop...\n\n")
	}

	var failures atomic.Int64
	err = inbox.Run(ctx, watcher, c, func(res inbox.Result) {
		if res.Err != nil {
			failures.Add(1)
		}
		if isVerbose() {
			fmt.Fprintf(os.Stderr, "%s %s: %s\n", GetPhaseEmoji(res.State.Phase), res.Path, res.State.Phase)
		}
		data, err := f.FormatUpload(res.State)
		if err != nil {
			log.Warn("failed to format result for %s: %v", res.Path, err)
			return
		}
		if err := writeOutput(out, data); err != nil {
			log.Warn("%v", err)
		}
	})
	if err != nil {
		return err
	}

	if n := failures.Load(); n > 0 && isVerbose() {
		fmt.Fprintf(os.Stderr, "%d upload(s) failed\n", n)
	}
	return nil
}
