// Package filesystem wraps filesystem calls on input files with retries for
// NFS stale file handle errors (ESTALE).
//
// Files selected in a file manager frequently live on network mounts. After
// the server side of an NFS export changes, the first stat of a path can
// fail with ESTALE even though the file is fine; a short retry with
// exponential backoff gives the client time to refresh the handle. Any
// other error is returned immediately.
//
// # Metrics
//
// Stale errors and retry outcomes are counted in
// combine_videos_filesystem_stale_errors_total and
// combine_videos_filesystem_retries_total, labelled by operation.
package filesystem
