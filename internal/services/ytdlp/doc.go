// Package ytdlp wraps the yt-dlp binary for audio acquisition.
//
// This package handles:
//   - Audio-only downloads into a caller-supplied directory
//   - Fallback to the lowest-quality muxed format when no separated
//     audio stream exists
//   - Binary self-update and version queries for dependency maintenance
//
// Downloads use a fixed output template so the produced artifact can be
// located regardless of the container the source offers. A custom
// command runner can be injected for tests.
package ytdlp
