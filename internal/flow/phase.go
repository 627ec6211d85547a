// Package flow holds the view-scoped state machines that drive a single
// submission lifecycle: uploading a document and checking text for MRC.
//
// A flow never performs I/O on its own. Submit validates locally and hands
// back a task; the caller runs the task wherever it likes (a tea.Cmd, a
// goroutine, inline) and feeds the outcome to Resolve. Resolve applies an
// outcome only if it belongs to the flow's latest submission and the flow
// has not been closed.
package flow

// Phase is the lifecycle position of a flow
type Phase int

const (
	// Idle means nothing is in flight and nothing has been shown yet
	Idle Phase = iota
	// Pending means exactly one request is in flight
	Pending
	// Succeeded means the latest request produced a result
	Succeeded
	// Failed means validation or the latest request failed
	Failed
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// User-facing messages
const (
	MsgNoFileSelected     = "no file selected"
	MsgUploadFailed       = "failed to upload file"
	MsgNoInput            = "no input provided"
	MsgVerifyFailed       = "failed to check machine readability"
	MsgMachineReadable    = "Yes, it is machine-readable code"
	MsgNotMachineReadable = "No, it is not machine-readable"
)

// Token identifies one submission of one flow
type Token uint64

// guard hands out submission tokens and remembers whether its flow is alive
type guard struct {
	current Token
	closed  bool
}

func (g *guard) next() Token {
	g.current++
	return g.current
}

func (g *guard) accepts(t Token) bool {
	return !g.closed && t == g.current
}

func (g *guard) close() {
	g.closed = true
	g.current++
}
