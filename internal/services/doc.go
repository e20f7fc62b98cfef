// Package services defines shared utilities consumed by the pipeline
// stages and external integrations.
//
// Key responsibilities:
//   - Structured failure markers plus the Wrap helper that tag stage
//     errors with a uniform, classifiable cause.
//   - Context helpers that stamp run identifiers and stage names for
//     logging correlation.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
