// Package pipeline orchestrates a summarization run: acquire audio,
// transcribe it, summarize the transcript, and optionally persist the
// result.
//
// Stages run strictly sequentially; each stage's output is the next
// stage's sole input. The runner advances through a small state machine
// and short-circuits to StateFailed on the first stage error, releasing
// the staged audio artifact on every exit path. Persistence is the one
// non-fatal stage: its failure degrades the run to done-with-annotation
// instead of failing it. History rows and notifications are emitted
// best-effort after the run settles and never change the outcome.
package pipeline
