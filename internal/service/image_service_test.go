package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"skillswap/internal/config"
)

func TestImageServiceProcessAvatar(t *testing.T) {
	cfg := &config.Config{UploadDir: t.TempDir(), PublicBaseURL: "http://localhost:5000/"}
	svc := NewImageService(cfg)

	url, err := svc.ProcessAvatar(UploadAvatarInput{
		UserID:      "alice",
		Filename:    "me.png",
		ContentType: "image/png",
		Content:     tinyPNG(t, 1200, 800),
	})
	if err != nil {
		t.Fatalf("process avatar failed: %v", err)
	}
	if url != "http://localhost:5000/uploads/avatars/alice.webp" {
		t.Fatalf("unexpected avatar URL %q", url)
	}
	if _, statErr := os.Stat(svc.AvatarPath("alice")); statErr != nil {
		t.Fatalf("expected stored avatar on disk: %v", statErr)
	}

	// Re-upload overwrites in place, same URL.
	url2, err := svc.ProcessAvatar(UploadAvatarInput{
		UserID:      "alice",
		Filename:    "me2.png",
		ContentType: "image/png",
		Content:     tinyPNG(t, 640, 640),
	})
	if err != nil {
		t.Fatalf("re-upload failed: %v", err)
	}
	if url2 != url {
		t.Fatalf("expected stable avatar URL, got %q then %q", url, url2)
	}
}

func TestImageServiceProcessAvatarValidation(t *testing.T) {
	svc := NewImageService(&config.Config{UploadDir: t.TempDir()})

	if _, err := svc.ProcessAvatar(UploadAvatarInput{UserID: "alice"}); err == nil {
		t.Fatal("expected empty upload error")
	}

	if _, err := svc.ProcessAvatar(UploadAvatarInput{
		UserID:      "alice",
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Content:     []byte("not an image"),
	}); err == nil {
		t.Fatal("expected invalid image type error")
	}

	tooLarge := bytes.Repeat([]byte{'a'}, AvatarMaxUploadBytes+1)
	if _, err := svc.ProcessAvatar(UploadAvatarInput{
		UserID:      "alice",
		Filename:    "huge.png",
		ContentType: "image/png",
		Content:     tooLarge,
	}); err == nil {
		t.Fatal("expected size validation error")
	}
}

func TestImageServiceCropSquare(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 300, 100))
	cropped := cropSquare(src)
	b := cropped.Bounds()
	if b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("expected 100x100 square crop, got %dx%d", b.Dx(), b.Dy())
	}
}

func tinyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// #nosec G115: modulo 255 is safe for uint8
			img.SetRGBA(x, y, color.RGBA{R: uint8(x % 255), G: uint8(y % 255), B: 120, A: 255})
		}
	}
	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
