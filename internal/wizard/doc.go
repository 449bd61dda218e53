// Package wizard drives the interactive transfer session: pick source and
// destination disks, designate root and EFI partitions, review the partition
// mapping, edit exclude rules, and emit the final script.
//
// The wizard holds a file lock for its whole run so two sessions cannot
// interleave prompts on the same machine. Aborting at any prompt returns
// ErrAborted and leaves no artifacts behind; the script and history record are
// only written after the final confirmation.
package wizard
