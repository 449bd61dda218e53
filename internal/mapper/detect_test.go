package mapper

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"driveshift/internal/blockdev"
	"driveshift/internal/logging"
)

// fakeProber simulates mounts by materializing canned file trees inside the
// probe target.
type fakeProber struct {
	rootDevices map[string]bool  // devices whose "filesystem" contains etc/fstab
	failDevices map[string]error // devices whose mount fails

	mounted  map[string]string // target -> device
	mountOps int
	umountOps int
}

func newFakeProber() *fakeProber {
	return &fakeProber{
		rootDevices: map[string]bool{},
		failDevices: map[string]error{},
		mounted:     map[string]string{},
	}
}

func (f *fakeProber) Mount(device, target, fstype string, readonly bool) error {
	if err := f.failDevices[device]; err != nil {
		return err
	}
	if !readonly {
		return errors.New("probe mounts must be read-only")
	}
	if f.rootDevices[device] {
		if err := os.MkdirAll(filepath.Join(target, "etc"), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(target, "etc", "fstab"), []byte("# fstab\n"), 0o644); err != nil {
			return err
		}
	}
	f.mounted[target] = device
	f.mountOps++
	return nil
}

func (f *fakeProber) Unmount(target string) error {
	if _, ok := f.mounted[target]; !ok {
		return errors.New("unmount of unmounted target " + target)
	}
	delete(f.mounted, target)
	f.umountOps++
	_ = os.RemoveAll(filepath.Join(target, "etc"))
	return nil
}

func parts() []blockdev.Partition {
	return []blockdev.Partition{
		{Path: "/dev/sda1", Filesystem: blockdev.FSVfat},
		{Path: "/dev/sda2", Filesystem: blockdev.FSSwap},
		{Path: "/dev/sda3", Filesystem: blockdev.FSExt4},
		{Path: "/dev/sda4", Filesystem: blockdev.FSExt4},
	}
}

func TestDetectRootFindsFstab(t *testing.T) {
	prober := newFakeProber()
	prober.rootDevices["/dev/sda4"] = true
	det := NewDetector(prober, t.TempDir(), logging.NewNop())

	idx, ok := det.DetectRoot(parts())
	if !ok || idx != 3 {
		t.Fatalf("expected root at 3, got %d ok=%v", idx, ok)
	}
	if len(prober.mounted) != 0 {
		t.Fatalf("mounts leaked: %v", prober.mounted)
	}
	if prober.mountOps != prober.umountOps {
		t.Fatalf("mount/unmount imbalance: %d vs %d", prober.mountOps, prober.umountOps)
	}
}

func TestDetectRootSkipsSwapAndUnknown(t *testing.T) {
	prober := newFakeProber()
	det := NewDetector(prober, t.TempDir(), logging.NewNop())

	input := []blockdev.Partition{
		{Path: "/dev/sda1", Filesystem: blockdev.FSSwap},
		{Path: "/dev/sda2", Filesystem: blockdev.FSUnknown},
	}
	if idx, ok := det.DetectRoot(input); ok {
		t.Fatalf("nothing mountable, got root %d", idx)
	}
	if prober.mountOps != 0 {
		t.Fatalf("swap/unknown must never be mounted, saw %d mounts", prober.mountOps)
	}
}

func TestDetectRootContinuesPastMountFailures(t *testing.T) {
	prober := newFakeProber()
	prober.failDevices["/dev/sda3"] = errors.New("bad superblock")
	prober.rootDevices["/dev/sda4"] = true
	det := NewDetector(prober, t.TempDir(), logging.NewNop())

	idx, ok := det.DetectRoot(parts())
	if !ok || idx != 3 {
		t.Fatalf("expected root at 3 despite earlier mount failure, got %d ok=%v", idx, ok)
	}
	if len(prober.mounted) != 0 {
		t.Fatalf("mounts leaked: %v", prober.mounted)
	}
}

func TestDetectRootNotFoundLeavesNoMounts(t *testing.T) {
	prober := newFakeProber()
	det := NewDetector(prober, t.TempDir(), logging.NewNop())

	if idx, ok := det.DetectRoot(parts()); ok {
		t.Fatalf("expected no detection, got %d", idx)
	}
	if len(prober.mounted) != 0 {
		t.Fatalf("mounts leaked on not-found path: %v", prober.mounted)
	}
	if prober.mountOps == 0 {
		t.Fatal("mountable candidates should have been probed")
	}
	if prober.mountOps != prober.umountOps {
		t.Fatalf("mount/unmount imbalance: %d vs %d", prober.mountOps, prober.umountOps)
	}
}

func TestDetectEFIFirstVfat(t *testing.T) {
	idx, ok := DetectEFI(parts())
	if !ok || idx != 0 {
		t.Fatalf("expected EFI at 0, got %d ok=%v", idx, ok)
	}

	noVfat := []blockdev.Partition{
		{Path: "/dev/sda1", Filesystem: blockdev.FSExt4},
		{Path: "/dev/sda2", Filesystem: blockdev.FSSwap},
	}
	if idx, ok := DetectEFI(noVfat); ok {
		t.Fatalf("expected no EFI, got %d", idx)
	}
}
