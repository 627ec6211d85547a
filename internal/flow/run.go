package flow

import (
	"context"
	"errors"

	"github.com/yildizm/TransformoDocs/internal/errs"
)

// ErrBusy is returned by the runners when the flow already has a request in flight
var ErrBusy = errors.New("a submission is already pending")

// ErrClosed is returned by the runners when the flow has been torn down
var ErrClosed = errors.New("flow is closed")

// RunUpload submits u, runs the task inline and resolves it.
// The returned error is non-nil whenever the final phase is not Succeeded.
func RunUpload(ctx context.Context, u *Upload) (UploadState, error) {
	if u.Closed() {
		return u.State(), ErrClosed
	}
	if u.State().Phase == Pending {
		return u.State(), ErrBusy
	}

	task := u.Submit()
	if task == nil {
		return u.State(), failure(u.State().Err, u.State().ErrorMessage)
	}

	u.Resolve(task.Run(ctx))

	state := u.State()
	if state.Phase != Succeeded {
		return state, failure(state.Err, state.ErrorMessage)
	}
	return state, nil
}

// RunVerify submits v, runs the task inline and resolves it.
// The returned error is non-nil whenever the final phase is not Succeeded.
func RunVerify(ctx context.Context, v *Verify) (VerifyState, error) {
	if v.Closed() {
		return v.State(), ErrClosed
	}
	if v.State().Phase == Pending {
		return v.State(), ErrBusy
	}

	task := v.Submit()
	if task == nil {
		return v.State(), failure(v.State().Err, v.State().ErrorMessage)
	}

	v.Resolve(task.Run(ctx))

	state := v.State()
	if state.Phase != Succeeded {
		return state, failure(state.Err, state.ErrorMessage)
	}
	return state, nil
}

func failure(cause error, message string) error {
	if cause != nil {
		return cause
	}
	return errs.NewInternalError("run", message, nil)
}
