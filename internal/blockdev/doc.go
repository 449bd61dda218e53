// Package blockdev enumerates block devices and partitions.
//
// The Enumerator shells out to lsblk for the device tree and to blkid to
// backfill filesystem UUIDs lsblk omits, returning an immutable snapshot of
// BlockDevice records. A udev netlink watcher reports hotplug events so the
// CLI can surface freshly attached drives. Parsers live here to keep
// disk-utility quirks isolated from mapping and planning code.
package blockdev
