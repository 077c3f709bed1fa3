package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ironsheep/face-anon/internal/faults"
)

// createInMemoryImage creates a solid-colored image that never touches disk.
func createInMemoryImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createTestImage writes a solid-colored PNG into a test temp dir and
// returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-image.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, createInMemoryImage(width, height, c)); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestDecodeBytes(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, createInMemoryImage(40, 30, color.White)); err != nil {
		t.Fatalf("encode: %v", err)
	}

	img, err := DecodeBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeBytes failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("got %dx%d, want 40x30", b.Dx(), b.Dy())
	}
}

func TestDecodeBytes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("not an image")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes(tt.data)
			if !errors.Is(err, faults.ErrIO) {
				t.Errorf("expected ErrIO, got %v", err)
			}
		})
	}
}

func TestLoadFile_NonExistent(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, faults.ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
}

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache()
	if cache == nil {
		t.Fatal("NewImageCache returned nil")
	}
	if cache.Len() != 0 {
		t.Errorf("new cache has %d entries", cache.Len())
	}
}

func TestImageCache_Load(t *testing.T) {
	path := createTestImage(t, 100, 50, color.RGBA{255, 0, 0, 255})
	cache := NewImageCache()

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("got %dx%d, want 100x50", b.Dx(), b.Dy())
	}

	again, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if again != img {
		t.Error("second Load did not return the cached image")
	}
	if cache.Len() != 1 {
		t.Errorf("cache has %d entries, want 1", cache.Len())
	}
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewImageCache().Load(path)
	if !errors.Is(err, faults.ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
}

func TestImageCache_EvictAndClear(t *testing.T) {
	a := createTestImage(t, 10, 10, color.White)
	b := createTestImage(t, 20, 20, color.Black)
	cache := NewImageCache()
	for _, p := range []string{a, b} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load(%s): %v", p, err)
		}
	}

	cache.Evict(a)
	cache.Evict("never-loaded.png")
	if cache.Len() != 1 {
		t.Errorf("after Evict: %d entries, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear: %d entries, want 0", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	path := createTestImage(t, 32, 32, color.White)
	cache := NewImageCache()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				t.Errorf("concurrent Load failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if cache.Len() != 1 {
		t.Errorf("cache has %d entries, want 1", cache.Len())
	}
}

func TestLoadImageInfo(t *testing.T) {
	path := createTestImage(t, 64, 48, color.White)

	info, err := LoadImageInfo(NewImageCache(), path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Width != 64 || info.Height != 48 {
		t.Errorf("got %dx%d, want 64x48", info.Width, info.Height)
	}
	if info.Format != "PNG" {
		t.Errorf("format = %q, want PNG", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("file size = %d", info.FileSizeBytes)
	}
}
