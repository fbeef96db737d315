package agent

import (
	"encoding/json"
	"testing"
)

func TestLoopDetector(t *testing.T) {
	t.Parallel()

	d := newLoopDetector(3)
	args := json.RawMessage(`{"query":"weather"}`)

	if d.record("websearch", args) {
		t.Error("first call reported as loop")
	}
	if d.record("websearch", args) {
		t.Error("second call reported as loop")
	}
	if !d.record("websearch", args) {
		t.Error("third identical call not reported as loop")
	}
}

func TestLoopDetector_KeyOrderInsensitive(t *testing.T) {
	t.Parallel()

	d := newLoopDetector(2)
	if d.record("t", json.RawMessage(`{"a":1,"b":2}`)) {
		t.Error("first call reported as loop")
	}
	if !d.record("t", json.RawMessage(`{"b":2,"a":1}`)) {
		t.Error("reordered identical args not detected as the same call")
	}
}

func TestLoopDetector_DifferentArgsIndependent(t *testing.T) {
	t.Parallel()

	d := newLoopDetector(2)
	d.record("websearch", json.RawMessage(`{"query":"a"}`))
	if d.record("websearch", json.RawMessage(`{"query":"b"}`)) {
		t.Error("different args counted against the same signature")
	}
}
