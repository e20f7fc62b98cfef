// Package preflight provides readiness checks for the external tools,
// directories, and API credentials recap depends on.
//
// These checks run in two contexts:
//   - The pipeline runner calls RunAll before starting a run so a
//     doomed run fails in seconds instead of after a long download.
//   - The CLI "recap check" command displays the same results as a
//     readiness report.
//
// The Gemini connectivity check only runs when a key is configured.
package preflight
