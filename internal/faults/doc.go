// Package faults defines the failure taxonomy shared by every stage of the
// anonymization pipeline.
//
// Each stage tags its errors with one of the exported sentinel markers via
// Wrap. Callers classify failures with errors.Is against the marker while the
// original cause stays reachable through the same chain. Nothing in the
// pipeline retries or swallows a tagged error; they surface to the caller
// unmodified.
package faults
