package cron

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MemorySnapshotJob copies the memory store file into a backup directory
// on each tick and prunes old snapshots beyond Keep. The copy is a plain
// file copy: both store backends keep their state in a single file.
type MemorySnapshotJob struct {
	// StorePath is the memory store file to snapshot.
	StorePath string

	// Dir is the backup directory, created on first run.
	Dir string

	// Keep is how many snapshots to retain. Older ones are deleted.
	Keep int

	Logger       *slog.Logger
	ScheduleExpr string // empty = default "0 3 * * *"

	// now is replaceable for tests.
	now func() time.Time
}

// Compile-time interface check.
var _ Job = (*MemorySnapshotJob)(nil)

// Name implements Job.
func (j *MemorySnapshotJob) Name() string { return "memory_snapshot" }

// Schedule implements Job.
func (j *MemorySnapshotJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "0 3 * * *"
}

// Run copies the store file and prunes old snapshots.
func (j *MemorySnapshotJob) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return fmt.Errorf("cron: memory snapshot cancelled: %w", ctx.Err())
	}

	if _, err := os.Stat(j.StorePath); os.IsNotExist(err) {
		// Nothing to snapshot yet.
		return nil
	}

	if err := os.MkdirAll(j.Dir, 0o755); err != nil {
		return fmt.Errorf("cron: create snapshot dir: %w", err)
	}

	now := time.Now
	if j.now != nil {
		now = j.now
	}
	base := filepath.Base(j.StorePath)
	target := filepath.Join(j.Dir, fmt.Sprintf("%s-%s%s",
		strings.TrimSuffix(base, filepath.Ext(base)),
		now().Format("20060102_150405"),
		filepath.Ext(base)))

	if err := copyFile(j.StorePath, target); err != nil {
		return fmt.Errorf("cron: write snapshot: %w", err)
	}
	if j.Logger != nil {
		j.Logger.Info("cron: memory snapshot written", "path", target)
	}

	return j.prune(base)
}

// prune deletes the oldest snapshots beyond Keep. Snapshot names embed a
// sortable timestamp, so lexical order is chronological order.
func (j *MemorySnapshotJob) prune(base string) error {
	if j.Keep <= 0 {
		return nil
	}

	prefix := strings.TrimSuffix(base, filepath.Ext(base)) + "-"
	entries, err := os.ReadDir(j.Dir)
	if err != nil {
		return fmt.Errorf("cron: read snapshot dir: %w", err)
	}

	var snapshots []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			snapshots = append(snapshots, e.Name())
		}
	}
	sort.Strings(snapshots)

	for len(snapshots) > j.Keep {
		victim := snapshots[0]
		snapshots = snapshots[1:]
		if err := os.Remove(filepath.Join(j.Dir, victim)); err != nil {
			return fmt.Errorf("cron: prune snapshot %s: %w", victim, err)
		}
		if j.Logger != nil {
			j.Logger.Debug("cron: old snapshot pruned", "name", victim)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	tmp := dst + ".tmp"
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
