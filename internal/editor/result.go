package editor

import "fmt"

// Kind identifies how the edit service delivered its image.
type Kind int

const (
	// KindInline means Result.Data holds the encoded image bytes.
	KindInline Kind = iota + 1
	// KindReference means Result.URL must be fetched to obtain the image.
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindInline:
		return "inline"
	case KindReference:
		return "reference"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the edited image as returned by the service. Exactly one of Data
// or URL is meaningful, selected by Kind.
type Result struct {
	Kind Kind
	Data []byte
	URL  string
}

// Inline wraps encoded image bytes as a Result.
func Inline(data []byte) Result {
	return Result{Kind: KindInline, Data: data}
}

// Reference wraps an image URL as a Result.
func Reference(url string) Result {
	return Result{Kind: KindReference, URL: url}
}
