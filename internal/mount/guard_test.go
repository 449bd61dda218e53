package mount

import (
	"errors"
	"testing"
)

type recordingMounter struct {
	mounts     []string
	unmounts   []string
	mountErr   map[string]error
	unmountErr map[string]error
}

func (m *recordingMounter) Mount(device, target, fstype string, readonly bool) error {
	if err := m.mountErr[device]; err != nil {
		return err
	}
	m.mounts = append(m.mounts, target)
	return nil
}

func (m *recordingMounter) Unmount(target string) error {
	if err := m.unmountErr[target]; err != nil {
		return err
	}
	m.unmounts = append(m.unmounts, target)
	return nil
}

func TestGuardReleasesInReverseOrder(t *testing.T) {
	rec := &recordingMounter{}
	guard := NewGuard(rec)

	order := []string{"/mnt/src0", "/mnt/dst0", "/mnt/src1", "/mnt/dst1"}
	for _, target := range order {
		if err := guard.Mount("/dev/x", target, "ext4", false); err != nil {
			t.Fatalf("mount %s: %v", target, err)
		}
	}

	if err := guard.ReleaseAll(); err != nil {
		t.Fatalf("release all: %v", err)
	}

	want := []string{"/mnt/dst1", "/mnt/src1", "/mnt/dst0", "/mnt/src0"}
	if len(rec.unmounts) != len(want) {
		t.Fatalf("unmount count = %d, want %d", len(rec.unmounts), len(want))
	}
	for i := range want {
		if rec.unmounts[i] != want[i] {
			t.Fatalf("unmount order %v, want %v", rec.unmounts, want)
		}
	}
	if len(guard.Active()) != 0 {
		t.Fatalf("guard should be empty, has %v", guard.Active())
	}
}

func TestGuardDoesNotTrackFailedMounts(t *testing.T) {
	rec := &recordingMounter{mountErr: map[string]error{"/dev/bad": errors.New("boom")}}
	guard := NewGuard(rec)

	if err := guard.Mount("/dev/bad", "/mnt/p", "ext4", true); err == nil {
		t.Fatal("expected mount failure")
	}
	if err := guard.ReleaseAll(); err != nil {
		t.Fatalf("release all: %v", err)
	}
	if len(rec.unmounts) != 0 {
		t.Fatalf("nothing should be unmounted, got %v", rec.unmounts)
	}
}

func TestGuardReleaseAllContinuesPastFailures(t *testing.T) {
	rec := &recordingMounter{unmountErr: map[string]error{"/mnt/b": errors.New("busy")}}
	guard := NewGuard(rec)

	for _, target := range []string{"/mnt/a", "/mnt/b", "/mnt/c"} {
		if err := guard.Mount("/dev/x", target, "ext4", false); err != nil {
			t.Fatalf("mount: %v", err)
		}
	}

	err := guard.ReleaseAll()
	if err == nil {
		t.Fatal("expected joined error")
	}
	// /mnt/c and /mnt/a must still be unmounted despite /mnt/b failing.
	if len(rec.unmounts) != 2 || rec.unmounts[0] != "/mnt/c" || rec.unmounts[1] != "/mnt/a" {
		t.Fatalf("unexpected unmounts %v", rec.unmounts)
	}
}

func TestGuardTargetedRelease(t *testing.T) {
	rec := &recordingMounter{}
	guard := NewGuard(rec)

	if err := guard.Mount("/dev/x", "/mnt/a", "ext4", false); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if err := guard.Release("/mnt/a"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := guard.Release("/mnt/a"); err == nil {
		t.Fatal("second release should fail")
	}
	if err := guard.ReleaseAll(); err != nil {
		t.Fatalf("release all: %v", err)
	}
	if len(rec.unmounts) != 1 {
		t.Fatalf("expected a single unmount, got %v", rec.unmounts)
	}
}
