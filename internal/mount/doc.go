// Package mount wraps mount/unmount syscalls behind a small interface and
// provides Guard, a handle that tracks acquired mounts and releases them in
// reverse order of acquisition on every exit path. Root detection depends on
// the guard's release guarantee; nothing in the wizard may mount a filesystem
// without going through it.
package mount
