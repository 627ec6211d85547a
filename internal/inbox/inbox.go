package inbox

import (
	"context"

	"github.com/yildizm/TransformoDocs/internal/client"
	"github.com/yildizm/TransformoDocs/internal/flow"
	"github.com/yildizm/TransformoDocs/internal/logger"
)

// Result is the settled upload of one discovered document
type Result struct {
	Path  string
	State flow.UploadState
	Err   error
}

// Handler receives every settled upload in discovery order
type Handler func(Result)

// Process uploads each path from paths through its own upload flow until
// paths is closed or ctx is done. One request is in flight at a time.
func Process(ctx context.Context, paths <-chan string, processor flow.DocumentProcessor, log *logger.Logger, handle Handler) error {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("inbox")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path, ok := <-paths:
			if !ok {
				return nil
			}
			handle(uploadOne(ctx, path, processor, log))
		}
	}
}

// Run watches w and processes every discovered document until ctx is done
func Run(ctx context.Context, w *Watcher, processor flow.DocumentProcessor, handle Handler) error {
	paths, errs, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	go func() {
		for err := range errs {
			w.log.Warn("inbox watcher reported: %v", err)
		}
	}()

	err = Process(ctx, paths, processor, w.log, handle)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func uploadOne(ctx context.Context, path string, processor flow.DocumentProcessor, log *logger.Logger) Result {
	upload := flow.NewUpload(processor, log)
	defer upload.Close()

	upload.Select(client.LocalFile(path))
	state, err := flow.RunUpload(ctx, upload)

	if err != nil {
		log.WarnWithFields("upload failed", []logger.Field{logger.F("file", path), logger.Error(err)})
	} else {
		log.Info("uploaded %s", path)
	}
	return Result{Path: path, State: state, Err: err}
}
