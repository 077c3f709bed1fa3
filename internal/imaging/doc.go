// Package imaging holds the pixel operations of the anonymization pipeline.
//
// The flow through the package for one image is:
//
//  1. LoadFile decodes the input and applies EXIF orientation
//  2. NewFitTransform and Fit place the image on a square canvas
//  3. BuildMask marks the ellipse targets as transparent (editable)
//     and ComposeMask places the mask on the same canvas
//  4. Restore crops the edited canvas back to the source size
//  5. Save writes the result in the format its extension selects
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner.
// FitTransform records where the source landed on the canvas so that
// Restore can undo the placement exactly.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other function
// is stateless and never mutates its input images.
//
// # Performance Considerations
//
// For repeated operations on the same image, use ImageCache to avoid
// redundant disk reads. Call Evict or Clear to bound memory in long-running
// processes such as the MCP server.
package imaging
