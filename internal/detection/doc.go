// Package detection finds candidate face regions and consolidates them.
//
// An Ensemble runs a fixed set of Pass values (one per detector profile)
// over a luminance-normalized copy of the image and concatenates their
// rectangles. Multiple passes trade precision for recall, so the raw list
// usually holds several boxes per face. Merge then collapses overlapping
// boxes with one of two strategies:
//
//   - components: every chain of boxes whose IoU exceeds the threshold
//     collapses to the largest member (union-find over the overlap graph)
//   - greedy: each unconsumed box is a seed and only boxes overlapping the
//     seed itself are absorbed
//
// # Coordinate System
//
// Regions use source-image pixels with the origin at the top-left corner.
// X increases rightward and Y downward. A Region covers [X, X+W) × [Y, Y+H).
//
// The cascade subpackage provides the OpenCV-backed Pass implementation;
// this package has no cgo dependency and can be tested with fake passes.
package detection
