// Package emit serializes a validated transfer plan into a standalone shell
// script that performs the mount/copy/fstab/bootloader sequence without any
// dependency on the wizard process.
//
// The script's logic is a fixed template; the plan is injected only as a
// shell-quoted data block (device arrays, UUID arrays, exclude arguments), so
// partition paths or exclude patterns containing shell metacharacters cannot
// change the script's behavior. The full plan is also appended as a commented
// TOML block and written to a sidecar file, making every emitted artifact
// self-describing.
package emit
