package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"driveshift/internal/blockdev"
	"driveshift/internal/plan"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	stateDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	stateDir := filepath.Join(base, "state")
	configPath := filepath.Join(homeDir, ".config", "driveshift", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf(
		"[paths]\nstate_dir = %q\nlog_dir = %q\nscratch_dir = %q\n",
		stateDir,
		filepath.Join(base, "logs"),
		filepath.Join(base, "scratch"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		stateDir:   stateDir,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestPlan(t *testing.T, dir string) (string, *plan.Plan) {
	t.Helper()

	source := blockdev.BlockDevice{
		Name: "sda", Path: "/dev/sda", Model: "Old Disk",
		Partitions: []blockdev.Partition{
			{Name: "sda1", Path: "/dev/sda1", SizeBytes: 1 << 30, Filesystem: blockdev.FSExt4, UUID: "src-root"},
			{Name: "sda2", Path: "/dev/sda2", SizeBytes: 1 << 28, Filesystem: blockdev.FSVfat, UUID: "SRC-EFI"},
		},
	}
	dest := blockdev.BlockDevice{
		Name: "sdb", Path: "/dev/sdb", Model: "New Disk",
		Partitions: []blockdev.Partition{
			{Name: "sdb1", Path: "/dev/sdb1", SizeBytes: 2 << 30, Filesystem: blockdev.FSExt4, UUID: "dst-root"},
			{Name: "sdb2", Path: "/dev/sdb2", SizeBytes: 1 << 28, Filesystem: blockdev.FSVfat, UUID: "DST-EFI"},
		},
	}
	p := plan.New(source, dest)
	if err := p.SetRoot(0); err != nil {
		t.Fatalf("set root: %v", err)
	}
	if err := p.SetEFI(1); err != nil {
		t.Fatalf("set efi: %v", err)
	}

	path := filepath.Join(dir, "plan.toml")
	if err := p.WriteFile(path); err != nil {
		t.Fatalf("write plan: %v", err)
	}
	return path, p
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
