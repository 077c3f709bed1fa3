// Package cascade runs OpenCV Haar cascade classifiers as detector passes.
//
// # Prerequisites
//
// OpenCV 4 and its bundled cascade models must be installed:
//   - Ubuntu/Debian: apt-get install libopencv-dev opencv-data
//   - macOS: brew install opencv
//
// The OpenCV-backed passes are compiled only with the gocv build tag
// (go build -tags gocv). Without it NewEnsemble returns a configuration
// error, and the rest of the module builds and tests without cgo.
//
// The model directory defaults to /usr/share/opencv4/haarcascades and is set
// with detector.cascade_dir in the configuration file.
//
// # Resource Handling
//
// Each Pass owns a native classifier handle. Call Close (or Ensemble.Close)
// when done. A classifier is not safe for concurrent use, so Detect
// serializes calls on the same Pass.
package cascade
