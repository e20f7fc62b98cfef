// Package whisper wraps the whisper CLI for audio transcription.
//
// This package handles:
//   - Model size validation (tiny through large)
//   - Transcription invocation with plain-text output
//   - Transcript readback from the tool's output directory
//
// fp16 is always disabled so the CPU path works everywhere. A custom
// command runner can be injected for tests.
package whisper
