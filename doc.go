// Command combine-videos joins a set of video files into one Matroska file.
//
// Inputs of differing sizes and frame rates are brought to a common target
// first. The target size is the probed size closest to the mean of all
// sizes (after applying rotation metadata); the target frame rate is the
// highest one found. The user can confirm the target, override either
// dimension and choose the output name through a zenity form, a terminal
// prompt, or command-line flags.
//
// It is designed to be run as a Nautilus script: with no file arguments the
// list is read from NAUTILUS_SCRIPT_SELECTED_FILE_PATHS.
//
// # Run Sequence
//
//  1. Configuration Loading: environment variables, then flags
//  2. Probing: every input is probed with ffprobe, one at a time, optionally
//     through the sqlite probe cache
//  3. Prompt: the user confirms or overrides the target
//  4. Encoding: each input is transcoded into a temporary workspace (under
//     /dev/shm when available), the segments are joined, and the result is
//     moved next to the first input
//  5. Cleanup: the workspace is removed and the user notified
//
// # Exit Codes
//
//   - 0: the output was written
//   - 1: the user cancelled the prompt
//   - 2: any failure, including no input being probeable
//
// Interrupting with SIGINT or SIGTERM kills the running ffmpeg and removes
// the workspace.
package main
