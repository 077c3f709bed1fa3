// Package server implements the MCP (Model Context Protocol) server for the
// face anonymization stages.
//
// This package provides a JSON-RPC 2.0 server that exposes each pipeline
// stage as a tool, so an MCP client can inspect detections and masks before
// committing to an edit, or drive the whole run in one call.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logs go to stderr because stdout carries the protocol.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load an image and report its metadata
//   - face_detect: Raw and consolidated face regions with ellipse targets
//   - face_mask: Ellipse mask at source size or fitted to the canvas
//   - canvas_fit: Square canvas embedding plus its FitTransform
//   - canvas_restore: Invert a FitTransform on an edited canvas
//   - face_anonymize: The full run, including the external edit
//
// # Image Caching
//
// Source images are cached by path so detect, mask and fit calls against
// the same photo decode it once. Edited canvases passed to canvas_restore
// are always read fresh.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: "Tool execution failed"
//   - data: {"kind": <failure kind>, "message": <error text>}
//
// The kind is the faults marker text, for example "no face detected" or
// "geometry mismatch", so clients can branch without parsing messages.
package server
