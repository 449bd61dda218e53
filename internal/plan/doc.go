// Package plan models a disk-to-disk transfer: the source and destination
// drives, an ordered mapping from source partitions to destination partitions,
// the designated root and EFI entries, and the exclude rules applied to the
// copy.
//
// A plan is built incrementally by the wizard and validated before emission.
// Validate returns independent findings classified by severity; any
// error-level finding blocks script generation. Plans serialize to TOML so
// they can be reviewed, re-validated, and re-emitted without rerunning the
// wizard.
package plan
