package blockdev

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// FilesystemType classifies a partition's filesystem as reported by the
// system disk utilities.
type FilesystemType string

const (
	FSExt2    FilesystemType = "ext2"
	FSExt3    FilesystemType = "ext3"
	FSExt4    FilesystemType = "ext4"
	FSBtrfs   FilesystemType = "btrfs"
	FSXFS     FilesystemType = "xfs"
	FSF2FS    FilesystemType = "f2fs"
	FSVfat    FilesystemType = "vfat"
	FSNTFS    FilesystemType = "ntfs"
	FSSwap    FilesystemType = "swap"
	FSUnknown FilesystemType = "unknown"
)

// ParseFilesystemType normalizes a raw fstype string from lsblk or blkid.
func ParseFilesystemType(raw string) FilesystemType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ext2":
		return FSExt2
	case "ext3":
		return FSExt3
	case "ext4":
		return FSExt4
	case "btrfs":
		return FSBtrfs
	case "xfs":
		return FSXFS
	case "f2fs":
		return FSF2FS
	case "vfat", "fat", "fat32", "msdos":
		return FSVfat
	case "ntfs", "ntfs3":
		return FSNTFS
	case "swap":
		return FSSwap
	default:
		return FSUnknown
	}
}

// Mountable reports whether the filesystem can hold files. Swap and unknown
// filesystems are never mounted by the wizard or the generated script.
func (t FilesystemType) Mountable() bool {
	switch t {
	case FSSwap, FSUnknown, "":
		return false
	default:
		return true
	}
}

// Partition is one partition of a BlockDevice. Immutable once enumerated.
type Partition struct {
	Name       string         `toml:"name"`
	Path       string         `toml:"path"`
	SizeBytes  uint64         `toml:"size_bytes"`
	Filesystem FilesystemType `toml:"filesystem"`
	UUID       string         `toml:"uuid,omitempty"`
	Label      string         `toml:"label,omitempty"`
}

// HumanSize renders the partition size for display.
func (p Partition) HumanSize() string {
	return humanize.IBytes(p.SizeBytes)
}

// BlockDevice is a whole disk with its partitions. Enumerated once per wizard
// run; treat as an immutable snapshot.
type BlockDevice struct {
	Name       string      `toml:"name"`
	Path       string      `toml:"path"`
	SizeBytes  uint64      `toml:"size_bytes"`
	Model      string      `toml:"model,omitempty"`
	Removable  bool        `toml:"removable,omitempty"`
	Partitions []Partition `toml:"partitions"`
}

// HumanSize renders the device size for display.
func (d BlockDevice) HumanSize() string {
	return humanize.IBytes(d.SizeBytes)
}

// Describe returns a short one-line description for prompts and logs.
func (d BlockDevice) Describe() string {
	model := strings.TrimSpace(d.Model)
	if model == "" {
		model = "unknown model"
	}
	return d.Path + " (" + model + ", " + d.HumanSize() + ")"
}
