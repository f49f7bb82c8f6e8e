// Package batch turns a list of input files into per-file metadata records
// and the aggregate plan (target geometry and frame rate) they are
// normalized to.
//
// Files whose metadata cannot be read are left out of the statistics but
// stay in the batch, so they are still transcoded and concatenated. If most
// files fail to probe the plan is computed from the few that did not.
package batch
