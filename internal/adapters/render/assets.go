// Package render draws composed cards to concrete output formats. The
// raster and document paths consume the same composed ops, so every
// coordinate, line break and color matches between the two.
package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/opentype"
)

var (
	// ErrNotDataURI means a photo value was not a base64 data URI.
	ErrNotDataURI = errors.New("render: photo is not a base64 data URI")
	// ErrUnknownFont means a template names a family no loaded file covers.
	ErrUnknownFont = errors.New("render: unknown font family")
)

type backgroundEntry struct {
	img    image.Image
	raw    []byte // original encoded bytes, for direct document embedding
	format string // "jpg" or "png"
}

type fontEntry struct {
	parsed *opentype.Font
	path   string // on-disk path, for document font registration
}

// Assets holds the decoded card backgrounds and fonts. Loaded once at
// startup and read-only afterwards, so it is safe for concurrent exports.
type Assets struct {
	backgrounds map[string]backgroundEntry
	fonts       map[string]fontEntry
}

// LoadAssets reads backgrounds/*.jpg|*.png and fonts/*.ttf|*.otf from dir.
// Files are keyed by base name without extension: backgrounds/Parish.jpg
// becomes background "Parish", fonts/Vidaloka.ttf becomes family "Vidaloka".
// A missing dir yields empty but usable assets: cards render on plain white
// with fallback metrics rather than failing the whole server.
func LoadAssets(dir string) (*Assets, error) {
	a := &Assets{
		backgrounds: map[string]backgroundEntry{},
		fonts:       map[string]fontEntry{},
	}
	if dir == "" {
		return a, nil
	}

	bgDir := filepath.Join(dir, "backgrounds")
	entries, err := os.ReadDir(bgDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read backgrounds dir: %w", err)
	}
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".jpg" && ext != ".jpeg" && ext != ".png") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(bgDir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read background %s: %w", e.Name(), err)
		}
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("decode background %s: %w", e.Name(), err)
		}
		format := "jpg"
		if ext == ".png" {
			format = "png"
		}
		key := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		a.backgrounds[key] = backgroundEntry{img: img, raw: raw, format: format}
	}

	fontDir := filepath.Join(dir, "fonts")
	entries, err = os.ReadDir(fontDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read fonts dir: %w", err)
	}
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		path := filepath.Join(fontDir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", e.Name(), err)
		}
		parsed, err := opentype.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", e.Name(), err)
		}
		family := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		a.fonts[family] = fontEntry{parsed: parsed, path: path}
	}

	return a, nil
}

// Background returns the decoded image for a template background key.
func (a *Assets) Background(key string) (image.Image, bool) {
	e, ok := a.backgrounds[key]
	return e.img, ok
}

// BackgroundBytes returns the original encoded background and its format.
func (a *Assets) BackgroundBytes(key string) ([]byte, string, bool) {
	e, ok := a.backgrounds[key]
	return e.raw, e.format, ok
}

// Font returns the parsed font for a family name.
func (a *Assets) Font(family string) (*opentype.Font, bool) {
	e, ok := a.fonts[family]
	return e.parsed, ok
}

// FontPath returns the font file path for a family name.
func (a *Assets) FontPath(family string) (string, bool) {
	e, ok := a.fonts[family]
	return e.path, ok
}

// FontFamilies lists the loaded families in no particular order.
func (a *Assets) FontFamilies() []string {
	families := make([]string, 0, len(a.fonts))
	for f := range a.fonts {
		families = append(families, f)
	}
	return families
}

// DecodePhoto decodes a base64 data URI into an image. Only the base64
// payload matters; the declared media type is ignored in favor of content
// sniffing, because browsers are loose about it.
func DecodePhoto(dataURI string) (image.Image, error) {
	idx := strings.Index(dataURI, ";base64,")
	if !strings.HasPrefix(dataURI, "data:") || idx < 0 {
		return nil, ErrNotDataURI
	}
	raw, err := base64.StdEncoding.DecodeString(dataURI[idx+len(";base64,"):])
	if err != nil {
		return nil, fmt.Errorf("decode photo base64: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode photo image: %w", err)
	}
	return img, nil
}
