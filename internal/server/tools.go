package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

var regionsProperty = map[string]interface{}{
	"type":        "array",
	"description": "Face regions in source pixel coordinates. When omitted the regions are detected.",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "integer"},
			"y": map[string]interface{}{"type": "integer"},
			"w": map[string]interface{}{"type": "integer"},
			"h": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x", "y", "w", "h"},
	},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for later tool calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "face_detect",
			Description: "Detect faces with the configured detector passes and consolidate overlapping detections. Returns raw candidates, consolidated regions and their ellipse targets.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "face_mask",
			Description: "Build the edit mask for an image: opaque white everywhere, transparent inside each face ellipse. Returns a base64 PNG at source size, or at canvas size when fitted is true.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    pathProperty("Absolute path to the image file"),
					"regions": regionsProperty,
					"fitted": map[string]interface{}{
						"type":        "boolean",
						"description": "Embed the mask in the square canvas the same way canvas_fit embeds the image. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "canvas_fit",
			Description: "Embed an image in the square editing canvas, preserving aspect ratio. Returns the canvas as base64 PNG and the transform needed by canvas_restore.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the image file"),
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas side in pixels. Defaults to the configured canvas size",
						"minimum":     1,
						"maximum":     maxCanvasSize,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "canvas_restore",
			Description: "Crop an edited square canvas back to the scaled image area and resize it to the original dimensions recorded in the transform.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the edited canvas image"),
					"transform": map[string]interface{}{
						"type":        "object",
						"description": "Transform returned by canvas_fit",
					},
					"output_path": pathProperty("Optional file to write the restored image to; format follows the extension"),
				},
				"required": []string{"path", "transform"},
			},
		},
		{
			Name:        "face_anonymize",
			Description: "Run the full anonymization: detect, mask, fit, edit with the external service, restore and save. Fails without calling the service when no face is found.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty("Absolute path to the image file"),
					"output_path": pathProperty("Optional output path. Default <stem>-anon.png next to the input"),
					"prompt": map[string]interface{}{
						"type":        "string",
						"description": "Optional edit prompt. Default is a random configured prompt",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
