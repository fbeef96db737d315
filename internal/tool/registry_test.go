package tool_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aura-ai/aura/internal/tool"
	"github.com/aura-ai/aura/internal/tool/tooltest"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	r := tool.NewRegistry()
	mock := &tooltest.MockTool{NameFunc: func() string { return "websearch" }}

	if err := r.Register(mock); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, err := r.Get("websearch")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name() != "websearch" {
		t.Errorf("Name() = %q, want %q", got.Name(), "websearch")
	}
}

func TestRegistry_RegisterErrors(t *testing.T) {
	t.Parallel()

	r := tool.NewRegistry()

	if err := r.Register(&tooltest.MockTool{NameFunc: func() string { return "  " }}); !errors.Is(err, tool.ErrEmptyToolName) {
		t.Errorf("Register(empty name) error = %v, want ErrEmptyToolName", err)
	}

	mock := &tooltest.MockTool{NameFunc: func() string { return "read_file" }}
	if err := r.Register(mock); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register(mock); !errors.Is(err, tool.ErrDuplicateTool) {
		t.Errorf("Register(duplicate) error = %v, want ErrDuplicateTool", err)
	}
}

func TestRegistry_GetNotFound(t *testing.T) {
	t.Parallel()

	r := tool.NewRegistry()
	if _, err := r.Get("missing"); !errors.Is(err, tool.ErrToolNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrToolNotFound", err)
	}
}

func TestRegistry_SchemasAndNamesSorted(t *testing.T) {
	t.Parallel()

	r := tool.NewRegistry()
	for _, name := range []string{"write_file", "websearch", "list_directory"} {
		n := name
		if err := r.Register(&tooltest.MockTool{NameFunc: func() string { return n }}); err != nil {
			t.Fatalf("Register(%s) error = %v", n, err)
		}
	}

	wantNames := []string{"list_directory", "websearch", "write_file"}
	names := r.Names()
	if len(names) != len(wantNames) {
		t.Fatalf("Names() = %v, want %v", names, wantNames)
	}
	for i, want := range wantNames {
		if names[i] != want {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want)
		}
	}

	schemas := r.Schemas()
	for i, want := range wantNames {
		if schemas[i].Name != want {
			t.Errorf("Schemas()[%d].Name = %q, want %q", i, schemas[i].Name, want)
		}
	}

	defs := r.Definitions()
	for i, want := range wantNames {
		if defs[i].Name != want {
			t.Errorf("Definitions()[%d].Name = %q, want %q", i, defs[i].Name, want)
		}
	}
}

func TestRegistry_Execute(t *testing.T) {
	t.Parallel()

	r := tool.NewRegistry()
	mock := &tooltest.MockTool{
		NameFunc: func() string { return "echo" },
		ExecuteFunc: func(_ context.Context, args json.RawMessage) (tool.Output, error) {
			return tool.Output{Content: string(args)}, nil
		},
	}
	if err := r.Register(mock); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	out, err := r.Execute(context.Background(), "echo", json.RawMessage(`{"q":"hi"}`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.Content != `{"q":"hi"}` {
		t.Errorf("Content = %q", out.Content)
	}
	if mock.Calls() != 1 {
		t.Errorf("Calls() = %d, want 1", mock.Calls())
	}

	if _, err := r.Execute(context.Background(), "missing", nil); !errors.Is(err, tool.ErrToolNotFound) {
		t.Errorf("Execute(missing) error = %v, want ErrToolNotFound", err)
	}
}
