package config

const (
	defaultCascadeDir      = "/usr/share/opencv4/haarcascades"
	defaultMergeStrategy   = "components"
	defaultIoUThreshold    = 0.3
	defaultCanvasSize      = 1024
	defaultCanvasBG        = "#FFFFFF"
	defaultMaskRadiusX     = 0.6
	defaultMaskRadiusY     = 0.7
	defaultEditorBaseURL   = "https://api.openai.com/v1/images/edits"
	defaultEditorModel     = "gpt-image-1-mini"
	defaultEditorTimeout   = 120
	defaultJPEGQuality     = 95
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultCascadeFrontal  = "haarcascade_frontalface_default.xml"
	defaultCascadeAltFront = "haarcascade_frontalface_alt2.xml"
)

var defaultPrompts = []string{
	"A cute panda mask on the face, natural looking, photorealistic, kawaii style",
	"A cute rabbit mask on the face, natural looking, photorealistic, kawaii style",
}

// DefaultProfiles returns the detector passes used when none are configured:
// a standard pass, a more sensitive pass with the same cascade, and a pass
// with the alternate frontal model.
func DefaultProfiles() []Profile {
	return []Profile{
		{Name: "frontal-default", Cascade: defaultCascadeFrontal, ScaleFactor: 1.1, MinNeighbors: 5, MinSize: 30},
		{Name: "frontal-sensitive", Cascade: defaultCascadeFrontal, ScaleFactor: 1.05, MinNeighbors: 3, MinSize: 20},
		{Name: "frontal-alt2", Cascade: defaultCascadeAltFront, ScaleFactor: 1.1, MinNeighbors: 4, MinSize: 30},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	prompts := make([]string, len(defaultPrompts))
	copy(prompts, defaultPrompts)
	return Config{
		Detector: Detector{
			CascadeDir:    defaultCascadeDir,
			Equalize:      true,
			MergeStrategy: defaultMergeStrategy,
			IoUThreshold:  defaultIoUThreshold,
			Profiles:      DefaultProfiles(),
		},
		Canvas: Canvas{
			Size:       defaultCanvasSize,
			Background: defaultCanvasBG,
		},
		Mask: Mask{
			RadiusX: defaultMaskRadiusX,
			RadiusY: defaultMaskRadiusY,
		},
		Editor: Editor{
			BaseURL:        defaultEditorBaseURL,
			Model:          defaultEditorModel,
			Prompts:        prompts,
			TimeoutSeconds: defaultEditorTimeout,
		},
		Output: Output{
			JPEGQuality: defaultJPEGQuality,
			WriteMask:   true,
			WriteDebug:  true,
			WriteAudit:  true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
