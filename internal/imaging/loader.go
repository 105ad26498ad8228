package imaging

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Page is a decoded page image and its metadata.
type Page struct {
	Image image.Image
	Info  PageInfo
}

// PageInfo describes a loaded page.
type PageInfo struct {
	// Path is the file the page was read from, empty for in-memory pages.
	Path string `json:"path,omitempty"`

	// Width and Height are the displayed dimensions, after EXIF orientation
	// has been applied.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is the decoder name reported by the image package ("png", "jpeg", ...).
	Format string `json:"format"`

	// ColorDepth is "8-bit" or "16-bit" per channel.
	ColorDepth string `json:"color_depth"`

	// HasAlpha is true when any pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	FileSizeBytes int64  `json:"file_size_bytes"`
	FileSize      string `json:"file_size"`
}

// Load reads and decodes the page at path.
//
// The format is sniffed from the file contents, not the extension. JPEG
// pages carrying an EXIF orientation tag are rotated upright so that
// selection coordinates match what a viewer shows.
func Load(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind image: %w", err)
	}

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	page := FromImage(img, format)
	page.Info.Path = path
	page.Info.ColorDepth = colorDepth(cfg.ColorModel)
	page.Info.FileSizeBytes = stat.Size()
	page.Info.FileSize = humanize.Bytes(uint64(stat.Size()))
	return page, nil
}

// FromImage wraps an already decoded image as a page.
func FromImage(img image.Image, format string) *Page {
	b := img.Bounds()
	return &Page{
		Image: img,
		Info: PageInfo{
			Width:      b.Dx(),
			Height:     b.Dy(),
			Format:     format,
			ColorDepth: colorDepth(img.ColorModel()),
			HasAlpha:   !opaque(img),
		},
	}
}

func colorDepth(m color.Model) string {
	switch m {
	case color.RGBA64Model, color.NRGBA64Model, color.Gray16Model, color.Alpha16Model:
		return "16-bit"
	}
	return "8-bit"
}

func opaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	// Paletted and other exotic types: assume opaque.
	return true
}
