// Package workspace manages the temporary directory the transcoded segments
// and the concat list are written to.
//
// A Workspace is a scoped resource: create it right before the first file is
// written and defer Close, which removes the directory and everything in it
// on every exit path. The default location is /dev/shm when it exists, so
// the intermediate files never touch disk.
package workspace
