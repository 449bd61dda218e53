// Package mapper detects special partitions on an enumerated source drive.
//
// Root detection mounts each candidate read-only and probes for etc/fstab;
// mounts are best-effort and every successful mount is released before the
// next candidate is tried. EFI detection is intentionally weaker: the first
// vfat partition is offered as the candidate with no content probe, because
// ESPs are reliably vfat-formatted but carry no canonical marker file. A vfat
// data partition will be misdetected; the wizard always asks for
// confirmation rather than trusting the heuristic.
package mapper
