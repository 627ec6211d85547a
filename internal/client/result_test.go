package client

import (
	"encoding/json"
	"testing"
)

func TestDecodeResult_PreservesNumbers(t *testing.T) {
	result, err := DecodeResult([]byte(`{"id": 12345678901234567890, "ratio": 0.1}`))
	if err != nil {
		t.Fatalf("DecodeResult failed: %v", err)
	}

	out, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `{"id":12345678901234567890,"ratio":0.1}` {
		t.Errorf("Expected lossless re-encoding, got %s", out)
	}
}

func TestDecodeResult_AnyValue(t *testing.T) {
	for _, body := range []string{`{}`, `[]`, `"text"`, `42`, `null`, "  {\"a\": [1, {\"b\": null}]}\n"} {
		if _, err := DecodeResult([]byte(body)); err != nil {
			t.Errorf("DecodeResult(%q) failed: %v", body, err)
		}
	}
}

func TestDecodeResult_Rejects(t *testing.T) {
	for _, body := range []string{``, `{`, `{} {}`, `nope`} {
		if _, err := DecodeResult([]byte(body)); err == nil {
			t.Errorf("DecodeResult(%q): expected error", body)
		}
	}
}

func TestStructuredResult_NilMarshal(t *testing.T) {
	var r *StructuredResult
	out, err := r.MarshalJSON()
	if err != nil || string(out) != "null" {
		t.Errorf("Expected null, got %s (%v)", out, err)
	}
	if _, ok := r.Field("x"); ok {
		t.Error("Expected no field on nil result")
	}
}
