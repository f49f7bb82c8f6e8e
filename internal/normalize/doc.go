// Package normalize picks the single geometry and frame rate that a batch of
// heterogeneous videos is rescaled, letterboxed and resampled to before they
// are concatenated.
//
// The selection works on per-file metadata only:
//   - SelectStreams picks the primary video and audio stream of a file
//   - Orient swaps width and height for 90/270 degree rotation tags
//   - OptimalSize picks the input geometry closest to the mean geometry
//   - OptimalFPS picks the highest input frame rate, compared exactly
//   - ParseOverride and ResolveGeometry apply user supplied dimensions
package normalize
