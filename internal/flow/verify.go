package flow

import (
	"context"
	"strings"

	"github.com/yildizm/TransformoDocs/internal/errs"
	"github.com/yildizm/TransformoDocs/internal/logger"
)

// ReadabilityChecker asks the MRC classifier about a piece of text
type ReadabilityChecker interface {
	CheckMRC(ctx context.Context, content string) (bool, error)
}

// VerifyState is a snapshot of a verify flow.
// Classification is set only in Succeeded and ErrorMessage only in Failed.
type VerifyState struct {
	InputText      string
	Phase          Phase
	Classification *bool
	ErrorMessage   string
	Err            error
}

// Message returns the display line for the current classification, if any
func (s VerifyState) Message() string {
	if s.Classification == nil {
		return ""
	}
	return ClassificationMessage(*s.Classification)
}

// ClassificationMessage maps a verdict to its display line
func ClassificationMessage(readable bool) string {
	if readable {
		return MsgMachineReadable
	}
	return MsgNotMachineReadable
}

// Verify drives the MRC text-check lifecycle of one view
type Verify struct {
	checker ReadabilityChecker
	log     *logger.Logger
	state   VerifyState
	guard   guard
}

// NewVerify creates an idle verify flow with empty input
func NewVerify(checker ReadabilityChecker, log *logger.Logger) *Verify {
	if log == nil {
		log = logger.Nop()
	}
	return &Verify{
		checker: checker,
		log:     log.WithComponent("verify-flow"),
	}
}

// State returns a copy of the current state
func (v *Verify) State() VerifyState {
	return v.state
}

// Closed reports whether the flow has been torn down
func (v *Verify) Closed() bool {
	return v.guard.closed
}

// SetInput replaces the input text. A shown verdict or error is cleared.
func (v *Verify) SetInput(text string) {
	if v.guard.closed {
		return
	}
	v.state.InputText = text
	if v.state.Phase == Succeeded || v.state.Phase == Failed {
		v.state.Phase = Idle
		v.state.Classification = nil
		v.state.ErrorMessage = ""
		v.state.Err = nil
	}
}

// Submit starts a check of the current input. It returns nil when the flow
// is Pending, closed, or the input is blank; blank input moves the flow to
// Failed without any request being made.
func (v *Verify) Submit() *VerifyTask {
	if v.guard.closed || v.state.Phase == Pending {
		return nil
	}

	if strings.TrimSpace(v.state.InputText) == "" {
		v.fail(errs.NewValidationError("check_mrc", MsgNoInput), MsgNoInput)
		return nil
	}

	v.state.Phase = Pending
	v.state.Classification = nil
	v.state.ErrorMessage = ""
	v.state.Err = nil

	token := v.guard.next()
	v.log.Debug("submitting %d bytes for MRC check (token %d)", len(v.state.InputText), token)

	return &VerifyTask{
		token:   token,
		content: v.state.InputText,
		checker: v.checker,
	}
}

// Resolve applies the outcome of a task. Outcomes from an earlier
// submission or for a closed flow are discarded and false is returned.
func (v *Verify) Resolve(outcome VerifyOutcome) bool {
	if !v.guard.accepts(outcome.token) || v.state.Phase != Pending {
		v.log.Debug("discarding stale verify outcome (token %d)", outcome.token)
		return false
	}

	if outcome.Err != nil {
		v.log.WarnWithFields("MRC check failed", []logger.Field{logger.Error(outcome.Err)})
		v.fail(outcome.Err, MsgVerifyFailed)
		return true
	}

	readable := outcome.Readable
	v.state.Phase = Succeeded
	v.state.Classification = &readable
	v.log.Debug("MRC check succeeded: readable=%t", readable)
	return true
}

// Close tears the flow down. Later outcomes are discarded.
func (v *Verify) Close() {
	v.guard.close()
	v.state = VerifyState{}
}

func (v *Verify) fail(err error, message string) {
	v.state.Phase = Failed
	v.state.Classification = nil
	v.state.ErrorMessage = message
	v.state.Err = err
}

// VerifyTask is one in-flight MRC check
type VerifyTask struct {
	token   Token
	content string
	checker ReadabilityChecker
}

// Token identifies the submission this task belongs to
func (t *VerifyTask) Token() Token { return t.token }

// Run performs the check. It is safe to call from any goroutine.
func (t *VerifyTask) Run(ctx context.Context) VerifyOutcome {
	if t.checker == nil {
		return VerifyOutcome{token: t.token, Err: errs.NewInternalError("check_mrc", "no readability checker configured", nil)}
	}
	readable, err := t.checker.CheckMRC(ctx, t.content)
	return VerifyOutcome{token: t.token, Readable: readable, Err: err}
}

// VerifyOutcome is the settled result of a VerifyTask
type VerifyOutcome struct {
	token    Token
	Readable bool
	Err      error
}

// Token identifies the submission this outcome belongs to
func (o VerifyOutcome) Token() Token { return o.token }
