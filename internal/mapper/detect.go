package mapper

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"driveshift/internal/blockdev"
	"driveshift/internal/logging"
	"driveshift/internal/mount"
)

// Prober mounts and unmounts candidate partitions during detection.
// mount.Mounter satisfies it.
type Prober interface {
	Mount(device, target, fstype string, readonly bool) error
	Unmount(target string) error
}

// Detector runs partition heuristics against a scratch directory.
type Detector struct {
	prober  Prober
	scratch string
	logger  *slog.Logger
}

// NewDetector constructs a Detector that mounts probes under scratch.
func NewDetector(prober Prober, scratch string, logger *slog.Logger) *Detector {
	return &Detector{
		prober:  prober,
		scratch: scratch,
		logger:  logging.NewComponentLogger(logger, "mapper"),
	}
}

// DetectRoot scans partitions in enumeration order for one containing
// etc/fstab. Swap and unknown filesystems are skipped without mounting. Mount
// failures are ignored and scanning continues; every successful mount is
// unmounted before the next candidate and before returning. A false result
// means "not detected", never an error: the caller must still require an
// explicit root selection.
func (d *Detector) DetectRoot(parts []blockdev.Partition) (int, bool) {
	guard := mount.NewGuard(d.prober)
	defer func() { _ = guard.ReleaseAll() }()

	for i, part := range parts {
		if !part.Filesystem.Mountable() {
			continue
		}

		target := filepath.Join(d.scratch, fmt.Sprintf("probe-%d", i))
		if err := os.MkdirAll(target, 0o755); err != nil {
			d.logger.Debug("skip candidate, scratch dir failed",
				logging.String("partition", part.Path), logging.Error(err))
			continue
		}

		if err := guard.Mount(part.Path, target, string(part.Filesystem), true); err != nil {
			d.logger.Debug("skip candidate, mount failed",
				logging.String("partition", part.Path), logging.Error(err))
			_ = os.Remove(target)
			continue
		}

		found := fileExists(filepath.Join(target, "etc", "fstab"))

		if err := guard.Release(target); err != nil {
			d.logger.Warn("probe unmount failed",
				logging.String("target", target), logging.Error(err))
		}
		_ = os.Remove(target)

		if found {
			d.logger.Debug("root partition detected",
				logging.String("partition", part.Path), logging.Int("index", i))
			return i, true
		}
	}
	return -1, false
}

// DetectEFI returns the index of the first vfat partition.
func DetectEFI(parts []blockdev.Partition) (int, bool) {
	for i, part := range parts {
		if part.Filesystem == blockdev.FSVfat {
			return i, true
		}
	}
	return -1, false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
