package tools

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aura-ai/aura/internal/tool"
)

// defaultReadLines is how many lines read_file_lines returns when the
// caller does not specify a count.
const defaultReadLines = 10

// fileArgs is the shared argument shape for the file tools. The packed
// "input" string uses :: as separator for tools that take two values,
// e.g. "notes.txt::5" or "notes.txt::new content".
type fileArgs struct {
	Input string `json:"input"`
}

func decodeFileArgs(args json.RawMessage) (string, error) {
	var parsed fileArgs
	if err := json.Unmarshal(args, &parsed); err != nil {
		return "", err
	}
	if strings.TrimSpace(parsed.Input) == "" {
		return "", fmt.Errorf("input must not be empty")
	}
	return parsed.Input, nil
}

func fileInputSchema(description string) json.RawMessage {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"input": map[string]any{"type": "string", "description": description},
		},
		"required": []string{"input"},
	}
	raw, _ := json.Marshal(schema)
	return raw
}

// ReadFileTool reads a whole file.
type ReadFileTool struct{}

var _ tool.Tool = (*ReadFileTool)(nil)

// Name implements tool.Tool.
func (t *ReadFileTool) Name() string { return "read_file" }

// Description implements tool.Tool.
func (t *ReadFileTool) Description() string {
	return "Read the full content of a file at the given path."
}

// Schema implements tool.Tool.
func (t *ReadFileTool) Schema() json.RawMessage {
	return fileInputSchema("The file path to read")
}

// Execute implements tool.Tool.
func (t *ReadFileTool) Execute(_ context.Context, args json.RawMessage) (tool.Output, error) {
	path, err := decodeFileArgs(args)
	if err != nil {
		return tool.Output{Content: "invalid arguments: " + err.Error(), IsError: true}, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tool.Output{Content: "file does not exist: " + path, IsError: true}, nil
		}
		return tool.Output{Content: "read failed: " + err.Error(), IsError: true}, nil
	}
	return tool.Output{Content: string(content)}, nil
}

// ReadFileLinesTool reads the first N lines of a file. Its input is
// "path::N"; a bare path reads the default number of lines.
type ReadFileLinesTool struct{}

var _ tool.Tool = (*ReadFileLinesTool)(nil)

// Name implements tool.Tool.
func (t *ReadFileLinesTool) Name() string { return "read_file_lines" }

// Description implements tool.Tool.
func (t *ReadFileLinesTool) Description() string {
	return "Read the first N lines of a file. Input format: path::N, e.g. notes.txt::5."
}

// Schema implements tool.Tool.
func (t *ReadFileLinesTool) Schema() json.RawMessage {
	return fileInputSchema("The file path, optionally followed by ::N for the line count")
}

// Execute implements tool.Tool.
func (t *ReadFileLinesTool) Execute(_ context.Context, args json.RawMessage) (tool.Output, error) {
	input, err := decodeFileArgs(args)
	if err != nil {
		return tool.Output{Content: "invalid arguments: " + err.Error(), IsError: true}, nil
	}

	path := input
	count := defaultReadLines
	if idx := strings.Index(input, "::"); idx >= 0 {
		path = input[:idx]
		count, err = strconv.Atoi(strings.TrimSpace(input[idx+2:]))
		if err != nil || count <= 0 {
			return tool.Output{Content: "invalid line count: " + input[idx+2:], IsError: true}, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tool.Output{Content: "file does not exist: " + path, IsError: true}, nil
		}
		return tool.Output{Content: "read failed: " + err.Error(), IsError: true}, nil
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for len(lines) < count && scanner.Scan() {
		lines = append(lines, fmt.Sprintf("%d: %s", len(lines)+1, scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return tool.Output{Content: "read failed: " + err.Error(), IsError: true}, nil
	}

	header := fmt.Sprintf("First %d lines of %s:\n\n", len(lines), path)
	return tool.Output{Content: header + strings.Join(lines, "\n")}, nil
}

// WriteFileTool writes content to a file. Its input is "path::content";
// parent directories are created as needed.
type WriteFileTool struct{}

var _ tool.Tool = (*WriteFileTool)(nil)

// Name implements tool.Tool.
func (t *WriteFileTool) Name() string { return "write_file" }

// Description implements tool.Tool.
func (t *WriteFileTool) Description() string {
	return "Write content to a file. Input format: path::content."
}

// Schema implements tool.Tool.
func (t *WriteFileTool) Schema() json.RawMessage {
	return fileInputSchema("The file path followed by ::content to write")
}

// Execute implements tool.Tool.
func (t *WriteFileTool) Execute(_ context.Context, args json.RawMessage) (tool.Output, error) {
	input, err := decodeFileArgs(args)
	if err != nil {
		return tool.Output{Content: "invalid arguments: " + err.Error(), IsError: true}, nil
	}

	idx := strings.Index(input, "::")
	if idx < 0 {
		return tool.Output{Content: "invalid format, expected path::content", IsError: true}, nil
	}
	path, content := input[:idx], input[idx+2:]
	if strings.TrimSpace(path) == "" {
		return tool.Output{Content: "invalid format, expected path::content", IsError: true}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return tool.Output{Content: "write failed: " + err.Error(), IsError: true}, nil
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return tool.Output{Content: "write failed: " + err.Error(), IsError: true}, nil
	}
	return tool.Output{Content: "content written to: " + path}, nil
}

// ListDirectoryTool lists the entries of a directory.
type ListDirectoryTool struct{}

var _ tool.Tool = (*ListDirectoryTool)(nil)

// Name implements tool.Tool.
func (t *ListDirectoryTool) Name() string { return "list_directory" }

// Description implements tool.Tool.
func (t *ListDirectoryTool) Description() string {
	return "List the entries of a directory at the given path."
}

// Schema implements tool.Tool.
func (t *ListDirectoryTool) Schema() json.RawMessage {
	return fileInputSchema("The directory path to list")
}

// Execute implements tool.Tool.
func (t *ListDirectoryTool) Execute(_ context.Context, args json.RawMessage) (tool.Output, error) {
	path, err := decodeFileArgs(args)
	if err != nil {
		return tool.Output{Content: "invalid arguments: " + err.Error(), IsError: true}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tool.Output{Content: "directory does not exist: " + path, IsError: true}, nil
		}
		return tool.Output{Content: "list failed: " + err.Error(), IsError: true}, nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return tool.Output{Content: strings.Join(names, "\n")}, nil
}
