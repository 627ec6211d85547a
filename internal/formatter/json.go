package formatter

import (
	"encoding/json"

	"github.com/yildizm/TransformoDocs/internal/flow"
	"github.com/yildizm/TransformoDocs/internal/present"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// FormatUpload emits the serialized result on success, or an error object
func (f *jsonFormatter) FormatUpload(state flow.UploadState) ([]byte, error) {
	if state.Phase == flow.Succeeded {
		return []byte(present.Serialize(state.Result) + "\n"), nil
	}
	return f.marshal(StatusOutput{
		Phase: state.Phase.String(),
		File:  state.SubmittedName,
		Error: state.ErrorMessage,
	})
}

// FormatVerify emits the classifier verdict, or an error object
func (f *jsonFormatter) FormatVerify(state flow.VerifyState) ([]byte, error) {
	if state.Phase == flow.Succeeded && state.Classification != nil {
		return f.marshal(VerifyOutput{
			IsReadable: *state.Classification,
			Message:    state.Message(),
		})
	}
	return f.marshal(StatusOutput{
		Phase: state.Phase.String(),
		Error: state.ErrorMessage,
	})
}

func (f *jsonFormatter) marshal(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// VerifyOutput is the JSON shape of a successful check
type VerifyOutput struct {
	IsReadable bool   `json:"isReadable"`
	Message    string `json:"message"`
}

// StatusOutput is the JSON shape of anything but success
type StatusOutput struct {
	Phase string `json:"phase"`
	File  string `json:"file,omitempty"`
	Error string `json:"error,omitempty"`
}
