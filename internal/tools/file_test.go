package tools_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aura-ai/aura/internal/tools"
)

func inputArgs(t *testing.T, input string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(map[string]string{"input": input})
	if err != nil {
		t.Fatalf("marshal args: %v", err)
	}
	return raw
}

func TestReadFileTool(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello\nworld\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var rt tools.ReadFileTool
	out, err := rt.Execute(context.Background(), inputArgs(t, path))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.Content != "hello\nworld\n" {
		t.Errorf("Content = %q", out.Content)
	}

	out, err = rt.Execute(context.Background(), inputArgs(t, filepath.Join(dir, "missing.txt")))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !out.IsError || !strings.Contains(out.Content, "does not exist") {
		t.Errorf("missing file output = %+v", out)
	}
}

func TestReadFileLinesTool(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "long.txt")
	var content strings.Builder
	for i := 0; i < 20; i++ {
		content.WriteString("line\n")
	}
	if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	var rt tools.ReadFileLinesTool

	out, err := rt.Execute(context.Background(), inputArgs(t, path+"::3"))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.IsError {
		t.Fatalf("IsError = true, content %q", out.Content)
	}
	if !strings.Contains(out.Content, "First 3 lines") || !strings.Contains(out.Content, "3: line") {
		t.Errorf("Content = %q", out.Content)
	}
	if strings.Contains(out.Content, "4: line") {
		t.Errorf("read past the requested count: %q", out.Content)
	}

	// Default count when no ::N suffix is present.
	out, err = rt.Execute(context.Background(), inputArgs(t, path))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.Content, "First 10 lines") {
		t.Errorf("default count output = %q", out.Content)
	}

	out, err = rt.Execute(context.Background(), inputArgs(t, path+"::abc"))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !out.IsError {
		t.Error("IsError = false for bad line count, want true")
	}
}

func TestWriteFileTool(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "out.txt")

	var wt tools.WriteFileTool

	out, err := wt.Execute(context.Background(), inputArgs(t, path+"::written::content"))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.IsError {
		t.Fatalf("IsError = true, content %q", out.Content)
	}

	// Only the first :: separates path from content.
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "written::content" {
		t.Errorf("file content = %q, want %q", got, "written::content")
	}

	out, err = wt.Execute(context.Background(), inputArgs(t, "no separator"))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !out.IsError {
		t.Error("IsError = false for missing separator, want true")
	}
}

func TestListDirectoryTool(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "a"), 0o755); err != nil {
		t.Fatal(err)
	}

	var lt tools.ListDirectoryTool
	out, err := lt.Execute(context.Background(), inputArgs(t, dir))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out.Content != "a/\nb.txt" {
		t.Errorf("Content = %q, want %q", out.Content, "a/\nb.txt")
	}
}
