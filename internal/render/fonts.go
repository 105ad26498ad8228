package render

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFamily is used when a style names a family the book does not have.
const DefaultFamily = "Go"

// faceCacheSize bounds the number of sized faces kept alive. Each distinct
// (family, size, bold, italic) tuple in use costs one entry.
const faceCacheSize = 64

type variant uint8

const (
	regular variant = iota
	bold
	italic
	boldItalic
)

func variantOf(isBold, isItalic bool) variant {
	switch {
	case isBold && isItalic:
		return boldItalic
	case isBold:
		return bold
	case isItalic:
		return italic
	}
	return regular
}

type faceKey struct {
	family  string
	variant variant
	size    float64
}

// FontBook resolves style font settings to font faces.
//
// It ships the Go font families and can load extra TrueType files from a
// directory. Sized faces are cached. FontBook is safe for concurrent use, but
// a returned font.Face is not: callers drawing from several goroutines must
// serialize their use of a face.
type FontBook struct {
	mu       sync.Mutex
	families map[string]map[variant]*truetype.Font
	faces    *lru.Cache[faceKey, font.Face]
	log      *slog.Logger
}

// NewFontBook returns a book holding the bundled Go fonts.
func NewFontBook(log *slog.Logger) *FontBook {
	if log == nil {
		log = slog.Default()
	}
	faces, err := lru.New[faceKey, font.Face](faceCacheSize)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}

	fb := &FontBook{
		families: make(map[string]map[variant]*truetype.Font),
		faces:    faces,
		log:      log,
	}
	fb.mustAdd("Go", regular, goregular.TTF)
	fb.mustAdd("Go", bold, gobold.TTF)
	fb.mustAdd("Go", italic, goitalic.TTF)
	fb.mustAdd("Go", boldItalic, gobolditalic.TTF)
	fb.mustAdd("Go Medium", regular, gomedium.TTF)
	fb.mustAdd("Go Medium", italic, gomediumitalic.TTF)
	fb.mustAdd("Go Mono", regular, gomono.TTF)
	fb.mustAdd("Go Mono", bold, gomonobold.TTF)
	fb.mustAdd("Go Mono", italic, gomonoitalic.TTF)
	fb.mustAdd("Go Mono", boldItalic, gomonobolditalic.TTF)
	return fb
}

func (fb *FontBook) mustAdd(family string, v variant, data []byte) {
	if err := fb.add(family, v, data); err != nil {
		panic(fmt.Sprintf("bundled font %s: %v", family, err))
	}
}

func (fb *FontBook) add(family string, v variant, data []byte) error {
	f, err := truetype.Parse(data)
	if err != nil {
		return err
	}
	if fb.families[family] == nil {
		fb.families[family] = make(map[variant]*truetype.Font)
	}
	fb.families[family][v] = f
	return nil
}

// LoadDir adds every .ttf file in dir.
//
// The family name is the file name without its extension and without a
// trailing -Regular, -Bold, -Italic or -BoldItalic, which select the variant.
// "Sarabun-BoldItalic.ttf" adds the bold italic face of family "Sarabun".
// Unreadable files are logged and skipped. It returns the number of faces
// loaded.
func (fb *FontBook) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read font directory: %w", err)
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()

	loaded := 0
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".ttf") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			fb.log.Warn("skipping font", "path", path, "error", err)
			continue
		}
		family, v := parseFontName(e.Name())
		if err := fb.add(family, v, data); err != nil {
			fb.log.Warn("skipping font", "path", path, "error", err)
			continue
		}
		loaded++
	}
	if loaded > 0 {
		// A reloaded family may replace faces already cached.
		fb.faces.Purge()
	}
	return loaded, nil
}

func parseFontName(name string) (string, variant) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	lower := strings.ToLower(base)
	for _, s := range []struct {
		suffix string
		v      variant
	}{
		{"-bolditalic", boldItalic},
		{"-bold", bold},
		{"-italic", italic},
		{"-regular", regular},
	} {
		if strings.HasSuffix(lower, s.suffix) {
			return base[:len(base)-len(s.suffix)], s.v
		}
	}
	return base, regular
}

// Families lists the known family names, sorted.
func (fb *FontBook) Families() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	names := make([]string, 0, len(fb.families))
	for name := range fb.families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether family is known.
func (fb *FontBook) Has(family string) bool {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	_, ok := fb.families[family]
	return ok
}

// Face returns a face for the given settings. Unknown families fall back to
// DefaultFamily; a missing variant falls back to the family's regular face.
func (fb *FontBook) Face(family string, size float64, isBold, isItalic bool) font.Face {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	f, resolved, v := fb.resolve(family, variantOf(isBold, isItalic))
	key := faceKey{family: resolved, variant: v, size: size}
	if face, ok := fb.faces.Get(key); ok {
		return face
	}

	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	fb.faces.Add(key, face)
	return face
}

func (fb *FontBook) resolve(family string, v variant) (*truetype.Font, string, variant) {
	faces, ok := fb.families[family]
	if !ok {
		family, faces = DefaultFamily, fb.families[DefaultFamily]
	}
	if f, ok := faces[v]; ok {
		return f, family, v
	}
	if f, ok := faces[regular]; ok {
		return f, family, regular
	}
	// A family loaded with only styled files.
	for _, alt := range []variant{bold, italic, boldItalic} {
		if f, ok := faces[alt]; ok {
			return f, family, alt
		}
	}
	return fb.families[DefaultFamily][regular], DefaultFamily, regular
}

// FaceMeasurer measures strings with a font face.
type FaceMeasurer struct {
	Face font.Face
}

// Measure returns the advance width of s in pixels.
func (m FaceMeasurer) Measure(s string) float64 {
	return float64(font.MeasureString(m.Face, s)) / 64
}
