package mount

import (
	"errors"
	"fmt"
	"sync"
)

// Guard tracks mounts acquired through it and releases them LIFO. ReleaseAll
// is safe to defer alongside targeted Release calls; released targets are
// forgotten, so double release is a no-op.
type Guard struct {
	mounter Mounter

	mu      sync.Mutex
	targets []string
}

// NewGuard wraps a Mounter in a release-tracking guard.
func NewGuard(mounter Mounter) *Guard {
	return &Guard{mounter: mounter}
}

// Mount mounts device on target and records the target for release.
func (g *Guard) Mount(device, target, fstype string, readonly bool) error {
	if err := g.mounter.Mount(device, target, fstype, readonly); err != nil {
		return err
	}
	g.mu.Lock()
	g.targets = append(g.targets, target)
	g.mu.Unlock()
	return nil
}

// Release unmounts a single target previously acquired through the guard.
func (g *Guard) Release(target string) error {
	g.mu.Lock()
	found := false
	for i := len(g.targets) - 1; i >= 0; i-- {
		if g.targets[i] == target {
			g.targets = append(g.targets[:i], g.targets[i+1:]...)
			found = true
			break
		}
	}
	g.mu.Unlock()
	if !found {
		return fmt.Errorf("target %s is not held by this guard", target)
	}
	return g.mounter.Unmount(target)
}

// ReleaseAll unmounts every held target in reverse order of acquisition.
// All targets are attempted even when some fail; failures are joined.
func (g *Guard) ReleaseAll() error {
	g.mu.Lock()
	targets := g.targets
	g.targets = nil
	g.mu.Unlock()

	var errs []error
	for i := len(targets) - 1; i >= 0; i-- {
		if err := g.mounter.Unmount(targets[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Active returns the currently held targets in acquisition order.
func (g *Guard) Active() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string{}, g.targets...)
}
