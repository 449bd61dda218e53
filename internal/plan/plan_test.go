package plan

import (
	"path/filepath"
	"testing"

	"driveshift/internal/blockdev"
)

func disk(path string, parts ...blockdev.Partition) blockdev.BlockDevice {
	return blockdev.BlockDevice{
		Name:       filepath.Base(path),
		Path:       path,
		SizeBytes:  1 << 40,
		Model:      "Test Disk",
		Partitions: parts,
	}
}

func part(path string, fs blockdev.FilesystemType, uuid string) blockdev.Partition {
	return blockdev.Partition{
		Name:       filepath.Base(path),
		Path:       path,
		SizeBytes:  1 << 30,
		Filesystem: fs,
		UUID:       uuid,
	}
}

func threePartSource() blockdev.BlockDevice {
	return disk("/dev/sda",
		part("/dev/sda1", blockdev.FSExt4, "src-root"),
		part("/dev/sda2", blockdev.FSVfat, "SRC-EFI"),
		part("/dev/sda3", blockdev.FSSwap, "src-swap"),
	)
}

func threePartDest() blockdev.BlockDevice {
	return disk("/dev/sdb",
		part("/dev/sdb1", blockdev.FSExt4, "dst-root"),
		part("/dev/sdb2", blockdev.FSVfat, "DST-EFI"),
		part("/dev/sdb3", blockdev.FSSwap, "dst-swap"),
	)
}

func TestNewInitialMappingAligned(t *testing.T) {
	p := New(threePartSource(), threePartDest())

	if len(p.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(p.Entries))
	}
	for i, entry := range p.Entries {
		if entry.Skipped() {
			t.Fatalf("entry %d unexpectedly skipped", i)
		}
		if entry.Dest.Path != threePartDest().Partitions[i].Path {
			t.Fatalf("entry %d maps to %s", i, entry.Dest.Path)
		}
	}
	if p.RootIndex != -1 || p.EFIIndex != -1 {
		t.Fatalf("indices should start unset: root=%d efi=%d", p.RootIndex, p.EFIIndex)
	}
	if p.ID == "" {
		t.Fatal("plan ID must be set")
	}
}

func TestNewDestinationShorterThanSource(t *testing.T) {
	dest := disk("/dev/sdb", part("/dev/sdb1", blockdev.FSExt4, "d1"))
	p := New(threePartSource(), dest)

	if len(p.Entries) != 3 {
		t.Fatalf("expected one entry per source partition, got %d", len(p.Entries))
	}
	if p.Entries[0].Skipped() {
		t.Fatal("entry 0 should be mapped")
	}
	if !p.Entries[1].Skipped() || !p.Entries[2].Skipped() {
		t.Fatal("entries beyond the destination list must be absent")
	}
}

func TestRemapAndSkip(t *testing.T) {
	p := New(threePartSource(), threePartDest())

	other := part("/dev/sdb9", blockdev.FSExt4, "d9")
	if err := p.Remap(0, other); err != nil {
		t.Fatalf("remap: %v", err)
	}
	if p.Entries[0].Dest.Path != "/dev/sdb9" {
		t.Fatalf("remap did not apply: %+v", p.Entries[0])
	}

	if err := p.Skip(1); err != nil {
		t.Fatalf("skip: %v", err)
	}
	if !p.Entries[1].Skipped() {
		t.Fatal("entry 1 should be skipped")
	}

	if err := p.Remap(7, other); err == nil {
		t.Fatal("out-of-range remap must fail")
	}
	if err := p.Skip(-1); err == nil {
		t.Fatal("out-of-range skip must fail")
	}
}

func TestExcludeDeduplicationAndValidation(t *testing.T) {
	p := New(threePartSource(), threePartDest())

	if err := p.AddExclude("/tmp/*", OriginDefault); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := p.AddExclude("/tmp/*", OriginCustom); err != nil {
		t.Fatalf("duplicate add should be a no-op: %v", err)
	}
	if len(p.Excludes) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(p.Excludes))
	}
	if p.Excludes[0].Origin != OriginDefault {
		t.Fatalf("first origin must win, got %s", p.Excludes[0].Origin)
	}

	if err := p.AddExclude("[bad", OriginCustom); err == nil {
		t.Fatal("malformed glob must be rejected")
	}
	if err := p.AddExclude("  ", OriginCustom); err == nil {
		t.Fatal("blank pattern must be rejected")
	}

	p.RemoveExclude("/tmp/*")
	if len(p.Excludes) != 0 {
		t.Fatalf("rule not removed: %v", p.Excludes)
	}
}

func findCode(findings []Finding, code string) *Finding {
	for i := range findings {
		if findings[i].Code == code {
			return &findings[i]
		}
	}
	return nil
}

func TestValidateRootRequired(t *testing.T) {
	p := New(threePartSource(), threePartDest())

	findings := p.Validate()
	f := findCode(findings, "root_unset")
	if f == nil || f.Severity != SeverityError {
		t.Fatalf("expected root_unset error, got %v", findings)
	}
	if !HasErrors(findings) {
		t.Fatal("findings must contain errors")
	}
}

func TestValidateRootPointingAtSkippedEntry(t *testing.T) {
	p := New(threePartSource(), threePartDest())
	if err := p.SetRoot(0); err != nil {
		t.Fatalf("set root: %v", err)
	}
	if err := p.Skip(0); err != nil {
		t.Fatalf("skip: %v", err)
	}

	findings := p.Validate()
	if f := findCode(findings, "root_skipped"); f == nil || f.Severity != SeverityError {
		t.Fatalf("expected root_skipped error, got %v", findings)
	}
}

func TestValidateRootOnSwap(t *testing.T) {
	p := New(threePartSource(), threePartDest())
	if err := p.SetRoot(2); err != nil {
		t.Fatalf("set root: %v", err)
	}

	if f := findCode(p.Validate(), "root_swap"); f == nil {
		t.Fatal("expected root_swap error")
	}
}

func TestValidateEFISkipped(t *testing.T) {
	p := New(threePartSource(), threePartDest())
	if err := p.SetRoot(0); err != nil {
		t.Fatalf("set root: %v", err)
	}
	if err := p.SetEFI(1); err != nil {
		t.Fatalf("set efi: %v", err)
	}
	if err := p.Skip(1); err != nil {
		t.Fatalf("skip: %v", err)
	}

	if f := findCode(p.Validate(), "efi_skipped"); f == nil || f.Severity != SeverityError {
		t.Fatal("expected efi_skipped error")
	}
}

func TestValidateCountMismatchIsWarning(t *testing.T) {
	dest := disk("/dev/sdb",
		part("/dev/sdb1", blockdev.FSExt4, "d1"),
		part("/dev/sdb2", blockdev.FSVfat, "d2"),
	)
	p := New(threePartSource(), dest)
	if err := p.SetRoot(0); err != nil {
		t.Fatalf("set root: %v", err)
	}

	findings := p.Validate()
	f := findCode(findings, "count_mismatch")
	if f == nil || f.Severity != SeverityWarning {
		t.Fatalf("expected count_mismatch warning, got %v", findings)
	}
	if HasErrors(findings) {
		t.Fatalf("count mismatch alone must not block emission: %v", findings)
	}
}

func TestValidateDuplicateDestination(t *testing.T) {
	p := New(threePartSource(), threePartDest())
	if err := p.SetRoot(0); err != nil {
		t.Fatalf("set root: %v", err)
	}
	if err := p.Remap(1, *p.Entries[0].Dest); err != nil {
		t.Fatalf("remap: %v", err)
	}

	f := findCode(p.Validate(), "duplicate_destination")
	if f == nil || f.Severity != SeverityError {
		t.Fatal("expected duplicate_destination error")
	}
}

func TestValidateCleanPlan(t *testing.T) {
	p := New(threePartSource(), threePartDest())
	if err := p.SetRoot(0); err != nil {
		t.Fatalf("set root: %v", err)
	}
	if err := p.SetEFI(1); err != nil {
		t.Fatalf("set efi: %v", err)
	}
	if err := p.SeedExcludes([]string{"/proc/*", "/sys/*"}, OriginDefault); err != nil {
		t.Fatalf("seed excludes: %v", err)
	}

	findings := p.Validate()
	if HasErrors(findings) {
		t.Fatalf("clean plan must have no errors: %v", findings)
	}
	if len(findings) != 0 {
		t.Fatalf("clean symmetric plan expects no findings, got %v", findings)
	}
}

func TestPlanTOMLRoundTrip(t *testing.T) {
	p := New(threePartSource(), threePartDest())
	if err := p.SetRoot(0); err != nil {
		t.Fatalf("set root: %v", err)
	}
	if err := p.SetEFI(1); err != nil {
		t.Fatalf("set efi: %v", err)
	}
	if err := p.Skip(2); err != nil {
		t.Fatalf("skip: %v", err)
	}
	if err := p.AddExclude("/proc/*", OriginDefault); err != nil {
		t.Fatalf("add exclude: %v", err)
	}

	path := filepath.Join(t.TempDir(), "plan.toml")
	if err := p.WriteFile(path); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ID != p.ID {
		t.Fatalf("ID mismatch: %s vs %s", loaded.ID, p.ID)
	}
	if loaded.RootIndex != 0 || loaded.EFIIndex != 1 {
		t.Fatalf("indices lost: root=%d efi=%d", loaded.RootIndex, loaded.EFIIndex)
	}
	if len(loaded.Entries) != 3 {
		t.Fatalf("entries lost: %d", len(loaded.Entries))
	}
	if !loaded.Entries[2].Skipped() {
		t.Fatal("skipped entry must stay skipped after round trip")
	}
	if loaded.Entries[1].Dest == nil || loaded.Entries[1].Dest.Path != "/dev/sdb2" {
		t.Fatalf("entry 1 destination lost: %+v", loaded.Entries[1])
	}
	if len(loaded.Excludes) != 1 || loaded.Excludes[0].Pattern != "/proc/*" {
		t.Fatalf("excludes lost: %v", loaded.Excludes)
	}
}
