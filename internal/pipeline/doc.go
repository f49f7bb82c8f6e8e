// Package pipeline runs one combine job from a list of paths to a single
// output file.
//
// The steps are strictly sequential: sort the inputs, probe each one, work
// out the target size and frame rate, ask the user to confirm or override
// them, transcode every input into a temporary workspace, join the segments
// and move the result next to the first input. The workspace is removed on
// every exit path, and the user is notified once the workspace stage has
// started, whether it succeeded or not.
package pipeline
