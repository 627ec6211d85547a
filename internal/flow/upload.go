package flow

import (
	"context"

	"github.com/yildizm/TransformoDocs/internal/client"
	"github.com/yildizm/TransformoDocs/internal/errs"
	"github.com/yildizm/TransformoDocs/internal/logger"
)

// DocumentProcessor sends a document to the processing service
type DocumentProcessor interface {
	Process(ctx context.Context, file client.File) (*client.StructuredResult, error)
}

// UploadState is a snapshot of an upload flow.
// Result is set only in Succeeded and ErrorMessage only in Failed.
type UploadState struct {
	SelectedFile  client.File
	Phase         Phase
	Result        *client.StructuredResult
	ErrorMessage  string
	Err           error
	SubmittedName string
}

// Upload drives the single-file upload lifecycle of one view
type Upload struct {
	processor DocumentProcessor
	log       *logger.Logger
	state     UploadState
	guard     guard
}

// NewUpload creates an idle upload flow
func NewUpload(processor DocumentProcessor, log *logger.Logger) *Upload {
	if log == nil {
		log = logger.Nop()
	}
	return &Upload{
		processor: processor,
		log:       log.WithComponent("upload-flow"),
	}
}

// State returns a copy of the current state
func (u *Upload) State() UploadState {
	return u.state
}

// Closed reports whether the flow has been torn down
func (u *Upload) Closed() bool {
	return u.guard.closed
}

// Select replaces the selected file; nil deselects. A shown result or
// error is cleared so it is never displayed against a different file.
func (u *Upload) Select(file client.File) {
	if u.guard.closed {
		return
	}
	u.state.SelectedFile = file
	if u.state.Phase == Succeeded || u.state.Phase == Failed {
		u.state.Phase = Idle
		u.state.Result = nil
		u.state.ErrorMessage = ""
		u.state.Err = nil
	}
}

// Submit starts an upload of the selected file. It returns nil when the
// flow is already Pending, is closed, or has no file selected; in the last
// case the flow moves to Failed without any request being made.
func (u *Upload) Submit() *UploadTask {
	if u.guard.closed || u.state.Phase == Pending {
		return nil
	}

	if u.state.SelectedFile == nil {
		u.fail(errs.NewValidationError("upload", MsgNoFileSelected), MsgNoFileSelected)
		u.state.SubmittedName = ""
		return nil
	}

	u.state.Phase = Pending
	u.state.Result = nil
	u.state.ErrorMessage = ""
	u.state.Err = nil
	u.state.SubmittedName = u.state.SelectedFile.Name()

	token := u.guard.next()
	u.log.Debug("submitting %s (token %d)", u.state.SubmittedName, token)

	return &UploadTask{
		token:     token,
		file:      u.state.SelectedFile,
		processor: u.processor,
	}
}

// Resolve applies the outcome of a task. Outcomes from an earlier
// submission or for a closed flow are discarded and false is returned.
func (u *Upload) Resolve(outcome UploadOutcome) bool {
	if !u.guard.accepts(outcome.token) || u.state.Phase != Pending {
		u.log.Debug("discarding stale upload outcome (token %d)", outcome.token)
		return false
	}

	if outcome.Err != nil || outcome.Result == nil {
		err := outcome.Err
		if err == nil {
			err = errs.NewRemoteError("upload", "empty response", 0)
		}
		u.log.WarnWithFields("upload failed", []logger.Field{logger.F("file", u.state.SubmittedName), logger.Error(err)})
		u.fail(err, MsgUploadFailed)
		return true
	}

	u.state.Phase = Succeeded
	u.state.Result = outcome.Result
	u.log.Debug("upload of %s succeeded", u.state.SubmittedName)
	return true
}

// RequestNavigationToVerify reports whether the owner may switch to the
// verify view. On true the flow is closed and its state discarded.
func (u *Upload) RequestNavigationToVerify() bool {
	if u.guard.closed || u.state.Phase != Succeeded {
		return false
	}
	u.Close()
	return true
}

// Close tears the flow down. Later outcomes are discarded.
func (u *Upload) Close() {
	u.guard.close()
	u.state = UploadState{}
}

func (u *Upload) fail(err error, message string) {
	u.state.Phase = Failed
	u.state.Result = nil
	u.state.ErrorMessage = message
	u.state.Err = err
}

// UploadTask is one in-flight upload
type UploadTask struct {
	token     Token
	file      client.File
	processor DocumentProcessor
}

// Token identifies the submission this task belongs to
func (t *UploadTask) Token() Token { return t.token }

// FileName returns the name of the file being uploaded
func (t *UploadTask) FileName() string { return t.file.Name() }

// Run performs the upload. It is safe to call from any goroutine.
func (t *UploadTask) Run(ctx context.Context) UploadOutcome {
	if t.processor == nil {
		return UploadOutcome{token: t.token, Err: errs.NewInternalError("upload", "no document processor configured", nil)}
	}
	result, err := t.processor.Process(ctx, t.file)
	return UploadOutcome{token: t.token, Result: result, Err: err}
}

// UploadOutcome is the settled result of an UploadTask
type UploadOutcome struct {
	token  Token
	Result *client.StructuredResult
	Err    error
}

// Token identifies the submission this outcome belongs to
func (o UploadOutcome) Token() Token { return o.token }
