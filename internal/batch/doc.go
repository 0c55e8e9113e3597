// Package batch runs sequential playlist downloads. Selected entries
// are processed one at a time in ascending playlist order; a failed
// entry never stops the batch, it becomes a failed outcome in the
// summary.
package batch
