package retention

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/thoreinstein/pirouette/internal/dryrun"
	"github.com/thoreinstein/pirouette/internal/logging"
)

// writeSnapshotDir creates a fake snapshot directory with the given age.
func writeSnapshotDir(t *testing.T, tierDir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(tierDir, name)
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatal(err)
	}
	ts := time.Now().Add(-age)
	if err := os.Chtimes(path, ts, ts); err != nil {
		t.Fatal(err)
	}
	return path
}

func listNames(t *testing.T, dir string) map[string]bool {
	t.Helper()
	children, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]bool, len(children))
	for _, c := range children {
		names[c.Name()] = true
	}
	return names
}

func TestEnforceNoOpWithinCapacity(t *testing.T) {
	log := logging.ForTest(t)
	dir := t.TempDir()
	target := Target{Period: Days, Path: dir, MaxCount: 3}

	writeSnapshotDir(t, dir, "2026-08-21T00:00", 48*time.Hour)
	writeSnapshotDir(t, dir, "2026-08-22T00:00", 24*time.Hour)
	writeSnapshotDir(t, dir, "2026-08-23T00:00", 0)

	if err := Enforce(log, dryrun.New(false, log), target); err != nil {
		t.Fatal(err)
	}

	if got := len(listNames(t, dir)); got != 3 {
		t.Errorf("expected all 3 snapshots kept at capacity, got %d", got)
	}
}

func TestEnforceDeletesOldestExcess(t *testing.T) {
	log := logging.ForTest(t)
	dir := t.TempDir()
	target := Target{Period: Days, Path: dir, MaxCount: 3}

	// Five daily snapshots, day 1 oldest through day 5 newest.
	names := []string{
		"2026-08-19T00:00",
		"2026-08-20T00:00",
		"2026-08-21T00:00",
		"2026-08-22T00:00",
		"2026-08-23T00:00",
	}
	for i, name := range names {
		writeSnapshotDir(t, dir, name, time.Duration(len(names)-1-i)*24*time.Hour)
	}

	if err := Enforce(log, dryrun.New(false, log), target); err != nil {
		t.Fatal(err)
	}

	remaining := listNames(t, dir)
	if len(remaining) != 3 {
		t.Fatalf("expected 3 snapshots after enforcement, got %d", len(remaining))
	}
	for _, want := range names[2:] {
		if !remaining[want] {
			t.Errorf("snapshot %s should have been kept", want)
		}
	}
	for _, gone := range names[:2] {
		if remaining[gone] {
			t.Errorf("snapshot %s should have been deleted", gone)
		}
	}
}

func TestEnforceEvictsSmallestTimestampsRegardlessOfOrder(t *testing.T) {
	log := logging.ForTest(t)
	dir := t.TempDir()
	target := Target{Period: Hours, Path: dir, MaxCount: 2}

	ages := []time.Duration{
		7 * time.Hour, 3 * time.Hour, 9 * time.Hour, time.Hour, 5 * time.Hour,
	}
	names := []string{"s7", "s3", "s9", "s1", "s5"}

	// Shuffle creation order so eviction cannot depend on it.
	order := rand.Perm(len(names))
	for _, i := range order {
		writeSnapshotDir(t, dir, names[i], ages[i])
	}

	if err := Enforce(log, dryrun.New(false, log), target); err != nil {
		t.Fatal(err)
	}

	remaining := listNames(t, dir)
	// The two smallest-age (newest) entries survive: s1 and s3.
	for _, want := range []string{"s1", "s3"} {
		if !remaining[want] {
			t.Errorf("newest snapshot %s should have survived, remaining: %v", want, remaining)
		}
	}
	if len(remaining) != 2 {
		t.Errorf("expected exactly 2 survivors, got %d", len(remaining))
	}
}

func TestEnforceDeletesFilesAndDirectories(t *testing.T) {
	log := logging.ForTest(t)
	dir := t.TempDir()
	target := Target{Period: Hours, Path: dir, MaxCount: 1}

	// Oldest entry is a tarball file, middle is a non-empty directory.
	tarball := filepath.Join(dir, "2026-08-23T08:00.tgz")
	if err := os.WriteFile(tarball, []byte("gz"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-3 * time.Hour)
	if err := os.Chtimes(tarball, old, old); err != nil {
		t.Fatal(err)
	}

	snapDir := writeSnapshotDir(t, dir, "2026-08-23T09:00", 2*time.Hour)
	if err := os.WriteFile(filepath.Join(snapDir, "data.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	writeSnapshotDir(t, dir, "2026-08-23T10:00", 0)

	if err := Enforce(log, dryrun.New(false, log), target); err != nil {
		t.Fatal(err)
	}

	remaining := listNames(t, dir)
	if len(remaining) != 1 || !remaining["2026-08-23T10:00"] {
		t.Errorf("expected only the newest snapshot to remain, got %v", remaining)
	}
}

func TestEnforceMissingTierDirectoryIsRecoverable(t *testing.T) {
	log := logging.ForTest(t)
	target := Target{Period: Days, Path: filepath.Join(t.TempDir(), "nope"), MaxCount: 3}

	if err := Enforce(log, dryrun.New(false, log), target); err != nil {
		t.Errorf("unreadable tier directory should be recoverable, got %v", err)
	}
}

func TestEnforceDryRunDeletesNothing(t *testing.T) {
	log := logging.ForTest(t)
	dir := t.TempDir()
	target := Target{Period: Days, Path: dir, MaxCount: 1}

	writeSnapshotDir(t, dir, "2026-08-21T00:00", 48*time.Hour)
	writeSnapshotDir(t, dir, "2026-08-22T00:00", 24*time.Hour)
	writeSnapshotDir(t, dir, "2026-08-23T00:00", 0)

	if err := Enforce(log, dryrun.New(true, log), target); err != nil {
		t.Fatal(err)
	}

	if got := len(listNames(t, dir)); got != 3 {
		t.Errorf("dry-run must not delete anything, %d snapshots remain", got)
	}
}

func TestEvictionSetStableOnEqualTimestamps(t *testing.T) {
	ts := time.Now()
	entries := []Entry{
		{Path: "a", Timestamp: ts},
		{Path: "b", Timestamp: ts},
		{Path: "c", Timestamp: ts.Add(time.Hour)},
	}

	evicted := evictionSet(entries, 1)
	if len(evicted) != 1 {
		t.Fatalf("expected 1 evicted entry, got %d", len(evicted))
	}
	// Stable sort keeps input order among equals: "a" goes first.
	if evicted[0].Path != "a" {
		t.Errorf("expected stable eviction of %q, got %q", "a", evicted[0].Path)
	}
}
