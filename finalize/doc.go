// Package finalize turns a pruned tree into a project on disk.
//
// Finalizing runs four steps:
//
//  1. Materialize: write the tree below the destination through a
//     generator.Transaction. Failure is fatal and removes what was written.
//  2. git init, unless NoVCS is set.
//  3. git add -A and a single commit.
//  4. Summarize the enabled and disabled subsystems and the next steps.
//
// Steps 2 and 3 are best effort. Their failures are reported as
// FinalizeWarning errors in the Report and never undo step 1. A repository
// that was initialized but not committed is left in place.
package finalize
