// Package pipeline runs one anonymization end to end.
//
// A run decodes the input, asks the detector for candidate regions,
// consolidates them, and stops with faults.ErrNoFaceDetected before any
// network traffic when nothing remains. Otherwise it builds the ellipse mask,
// embeds image and mask in the square canvas, submits both to the editor,
// resolves the editor's delivery, restores the original geometry, and writes
// the output in the format implied by its extension.
//
// Side artifacts (fitted mask, debug overlay, YAML audit record) are written
// next to the input when enabled in config. Staged canvas files live in a
// per-run temporary directory that is removed on every return path.
//
// Runs share no mutable state, so RunBatch executes independent jobs
// concurrently.
package pipeline
