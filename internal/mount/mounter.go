package mount

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Mounter mounts and unmounts filesystems.
type Mounter interface {
	Mount(device, target, fstype string, readonly bool) error
	Unmount(target string) error
}

type sysMounter struct{}

// New returns a Mounter backed by the mount(2)/umount(2) syscalls.
func New() Mounter {
	return sysMounter{}
}

func (sysMounter) Mount(device, target, fstype string, readonly bool) error {
	var flags uintptr = unix.MS_NOATIME
	if readonly {
		flags |= unix.MS_RDONLY
	}
	if err := unix.Mount(device, target, fstype, flags, ""); err != nil {
		return fmt.Errorf("mount %s on %s (%s): %w", device, target, fstype, err)
	}
	return nil
}

func (sysMounter) Unmount(target string) error {
	if err := unix.Unmount(target, 0); err != nil {
		return fmt.Errorf("unmount %s: %w", target, err)
	}
	return nil
}

// IsPrivileged reports whether the process runs with an effective UID of 0.
// Probe mounts and the generated script both require it.
func IsPrivileged() bool {
	return unix.Geteuid() == 0
}
