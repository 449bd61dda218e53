// Package history records every emitted transfer script in a SQLite journal
// under the state directory, so past transfers can be reviewed and their plan
// sidecars located after the fact.
package history
