package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ironsheep/face-anon/internal/detection"
	"github.com/ironsheep/face-anon/internal/faults"
	"github.com/ironsheep/face-anon/internal/imaging"
	"github.com/ironsheep/face-anon/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "face_detect", "canvas_fit").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// maxCanvasSize bounds the canvas side a client may request from canvas_fit.
const maxCanvasSize = 4096

// toolError is the data payload of a failed tool call.
type toolError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000
// whose data names the failure kind (for example "no face detected").
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		kind := "error"
		if marker := faults.Marker(err); marker != nil {
			kind = marker.Error()
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", toolError{Kind: kind, Message: err.Error()})
	}
	s.logger.Debug("tool complete", "tool", params.Name, "elapsed", time.Since(start).Round(time.Millisecond))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "face_detect":
		return s.handleFaceDetect(args)
	case "face_mask":
		return s.handleFaceMask(args)
	case "canvas_fit":
		return s.handleCanvasFit(args)
	case "canvas_restore":
		return s.handleCanvasRestore(args)
	case "face_anonymize":
		return s.handleFaceAnonymize(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type faceDetectResult struct {
	Width         int                 `json:"width"`
	Height        int                 `json:"height"`
	MergeStrategy string              `json:"merge_strategy"`
	RawCandidates []detection.Region  `json:"raw_candidates"`
	Regions       []detection.Region  `json:"regions"`
	Ellipses      []detection.Ellipse `json:"ellipses"`
}

func (s *Server) handleFaceDetect(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	raw, merged, err := s.pipeline.DetectRegions(img)
	if err != nil {
		return nil, err
	}

	ellipses := make([]detection.Ellipse, len(merged))
	for i, r := range merged {
		ellipses[i] = r.Ellipse(s.cfg.Mask.RadiusX, s.cfg.Mask.RadiusY)
	}
	b := img.Bounds()
	return &faceDetectResult{
		Width:         b.Dx(),
		Height:        b.Dy(),
		MergeStrategy: s.cfg.Detector.MergeStrategy,
		RawCandidates: raw,
		Regions:       merged,
		Ellipses:      ellipses,
	}, nil
}

type faceMaskArgs struct {
	Path    string             `json:"path"`
	Regions []detection.Region `json:"regions"`
	Fitted  bool               `json:"fitted"`
}

type faceMaskResult struct {
	*imaging.ImageResult
	Regions          []detection.Region    `json:"regions"`
	EditableFraction float64               `json:"editable_fraction"`
	Transform        *imaging.FitTransform `json:"transform,omitempty"`
}

// clipRegions drops client-supplied regions that break the Region invariant
// and clamps the rest to the w×h image.
func clipRegions(regions []detection.Region, w, h int) []detection.Region {
	out := make([]detection.Region, 0, len(regions))
	for _, r := range regions {
		if !r.Valid() {
			continue
		}
		if clipped, ok := r.Clip(w, h); ok {
			out = append(out, clipped)
		}
	}
	return out
}

func (s *Server) handleFaceMask(args json.RawMessage) (interface{}, error) {
	var a faceMaskArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	regions := clipRegions(a.Regions, b.Dx(), b.Dy())
	if a.Regions == nil {
		if _, regions, err = s.pipeline.DetectRegions(img); err != nil {
			return nil, err
		}
	}

	mask := imaging.BuildMask(regions, b.Dx(), b.Dy(), s.cfg.Mask.RadiusX, s.cfg.Mask.RadiusY)
	result := &faceMaskResult{Regions: regions}
	if a.Fitted {
		t, err := imaging.NewFitTransform(b.Dx(), b.Dy(), s.cfg.Canvas.Size)
		if err != nil {
			return nil, err
		}
		if mask, err = t.ComposeMask(mask); err != nil {
			return nil, err
		}
		result.Transform = &t
	}

	result.EditableFraction = imaging.EditableFraction(mask)
	if result.ImageResult, err = imaging.EncodeResult(mask, imaging.PNG, 0, nil); err != nil {
		return nil, err
	}
	return result, nil
}

type canvasFitArgs struct {
	Path string `json:"path"`
	Size int    `json:"size"`
}

type canvasFitResult struct {
	*imaging.ImageResult
	Transform imaging.FitTransform `json:"transform"`
}

func (s *Server) handleCanvasFit(args json.RawMessage) (interface{}, error) {
	var a canvasFitArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Size == 0 {
		a.Size = s.cfg.Canvas.Size
	}
	if a.Size > maxCanvasSize {
		return nil, faults.Wrap(faults.ErrInvalidImage, "canvas_fit",
			fmt.Sprintf("size %d exceeds %d", a.Size, maxCanvasSize), nil)
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	canvas, t, err := imaging.Fit(img, a.Size, imaging.MustParseHexColor(s.cfg.Canvas.Background))
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodeResult(canvas, imaging.PNG, 0, nil)
	if err != nil {
		return nil, err
	}
	return &canvasFitResult{ImageResult: encoded, Transform: t}, nil
}

type canvasRestoreArgs struct {
	Path       string               `json:"path"`
	Transform  imaging.FitTransform `json:"transform"`
	OutputPath string               `json:"output_path"`
}

type canvasRestoreResult struct {
	*imaging.ImageResult
	OutputPath string `json:"output_path,omitempty"`
}

func (s *Server) handleCanvasRestore(args json.RawMessage) (interface{}, error) {
	var a canvasRestoreArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	// Edited canvases are one-off inputs; read them fresh.
	canvas, err := imaging.LoadFile(a.Path)
	if err != nil {
		return nil, err
	}
	restored, err := imaging.Restore(canvas, a.Transform)
	if err != nil {
		return nil, err
	}

	bg := imaging.MustParseHexColor(s.cfg.Canvas.Background)
	if a.OutputPath != "" {
		if err := imaging.Save(a.OutputPath, restored, s.cfg.Output.JPEGQuality, bg); err != nil {
			return nil, faults.Wrap(faults.ErrIO, "save", a.OutputPath, err)
		}
		b := restored.Bounds()
		return &canvasRestoreResult{
			ImageResult: &imaging.ImageResult{Width: b.Dx(), Height: b.Dy(), MimeType: imaging.MimeType(imaging.FormatForPath(a.OutputPath))},
			OutputPath:  a.OutputPath,
		}, nil
	}

	encoded, err := imaging.EncodeResult(restored, imaging.PNG, 0, nil)
	if err != nil {
		return nil, err
	}
	return &canvasRestoreResult{ImageResult: encoded}, nil
}

type faceAnonymizeArgs struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
	Prompt     string `json:"prompt"`
}

func (s *Server) handleFaceAnonymize(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a faceAnonymizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.pipeline.Run(ctx, pipeline.Job{Input: a.Path, Output: a.OutputPath, Prompt: a.Prompt})
}
