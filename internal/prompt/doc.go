// Package prompt asks the user to confirm the computed output parameters.
//
// The user sees the number of usable files, the chosen size and frame rate
// and every distinct input resolution, and answers with an output file name
// and optional width and height overrides. Three front ends exist:
//   - Zenity: a GTK form dialog, as used from file manager scripts
//   - Terminal: line based questions on a TTY
//   - Static: fixed answers from command line flags
//
// Cancelling the dialog (or closing stdin on the terminal) yields
// ErrCancelled, which is distinct from submitting empty answers.
package prompt
