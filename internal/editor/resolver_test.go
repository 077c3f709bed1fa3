package editor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ironsheep/face-anon/internal/faults"
)

func TestResolverFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.png":
			http.NotFound(w, r)
		case "/garbage.png":
			_, _ = w.Write([]byte("definitely not an image"))
		}
	}))
	defer server.Close()

	tests := []struct {
		name   string
		result Result
		want   error
	}{
		{"inline garbage", Inline([]byte("nope")), faults.ErrResponseFormat},
		{"inline empty", Inline(nil), faults.ErrResponseFormat},
		{"reference 404", Reference(server.URL + "/missing.png"), faults.ErrEditService},
		{"reference garbage", Reference(server.URL + "/garbage.png"), faults.ErrResponseFormat},
		{"reference bad scheme", Reference("ftp://example.com/a.png"), faults.ErrResponseFormat},
		{"reference no host", Reference("/relative.png"), faults.ErrResponseFormat},
		{"unknown kind", Result{}, faults.ErrResponseFormat},
	}

	resolver := NewResolver(server.Client())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), tt.result)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if KindInline.String() != "inline" || KindReference.String() != "reference" {
		t.Fatal("unexpected kind names")
	}
	if Kind(0).String() != "kind(0)" {
		t.Fatalf("got %q", Kind(0).String())
	}
}
