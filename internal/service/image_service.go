package service

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"skillswap/internal/config"
	"skillswap/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	DefaultAvatarUploadDir = "/tmp/skillswap/uploads/avatars"
	AvatarMaxUploadBytes   = 5 * 1024 * 1024
	AvatarSize             = 512
	AvatarWebPQuality      = 80
)

// UploadAvatarInput carries one profile-photo upload.
type UploadAvatarInput struct {
	UserID      string
	Filename    string
	ContentType string
	Content     []byte
}

// ImageService normalizes profile photos: uploads are center-cropped square,
// downscaled and stored as WebP under the upload directory.
type ImageService struct {
	uploadDir     string
	publicBaseURL string
}

// NewImageService returns a new ImageService.
func NewImageService(cfg *config.Config) *ImageService {
	uploadDir := DefaultAvatarUploadDir
	publicBaseURL := ""

	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		publicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	}

	return &ImageService{uploadDir: uploadDir, publicBaseURL: publicBaseURL}
}

// ProcessAvatar validates, crops, resizes and stores one avatar. It returns
// the public URL of the stored image. Re-uploading overwrites the previous
// avatar; the path is stable per user.
func (s *ImageService) ProcessAvatar(in UploadAvatarInput) (string, error) {
	if in.UserID == "" {
		return "", models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if len(in.Content) > AvatarMaxUploadBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", AvatarMaxUploadBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return "", models.NewValidationError("Invalid image type")
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, detectedType) {
		return "", models.NewValidationError("Image content type mismatch")
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	avatar := resizeToFit(cropSquare(decoded), AvatarSize, AvatarSize)
	encoded, err := encodeWebP(avatar, AvatarWebPQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	rel := filepath.ToSlash(filepath.Join("avatars", in.UserID+".webp"))
	if err := writeBytesToFile(filepath.Join(s.uploadDir, rel), encoded); err != nil {
		return "", models.NewInternalError(err)
	}

	return s.publicBaseURL + "/uploads/" + rel, nil
}

// AvatarPath resolves the on-disk path of a user's stored avatar.
func (s *ImageService) AvatarPath(userID string) string {
	return filepath.Join(s.uploadDir, "avatars", userID+".webp")
}

// cropSquare center-crops the image to a square using the shorter edge.
func cropSquare(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return src
	}

	side := w
	if h < side {
		side = h
	}
	x := b.Min.X + (w-side)/2
	y := b.Min.Y + (h-side)/2

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), src, image.Point{X: x, Y: y}, draw.Src)
	return dst
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
