// Package renderer draws the flock's letter sprites with raylib.
package renderer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/letterflock/flock"
)

// SpriteSheet holds one texture per distinct letter.
type SpriteSheet struct {
	textures map[string]rl.Texture2D
	tint     rl.Color
}

// SpritePath returns the image file a letter is loaded from.
func SpritePath(dir, letter, ext string) string {
	return filepath.Join(dir, letter+ext)
}

// LoadSpriteSheet loads a texture for every letter (must be called after the
// raylib window is created). With a non-empty dir each letter is read from
// SpritePath; a missing or unreadable file is an error. With an empty dir the
// glyphs are rendered from raylib's default font at fontSize.
func LoadSpriteSheet(letters []string, dir, ext string, fontSize int) (*SpriteSheet, error) {
	s := &SpriteSheet{
		textures: make(map[string]rl.Texture2D, len(letters)),
		tint:     rl.White,
	}

	for _, letter := range letters {
		var (
			img *rl.Image
			err error
		)
		if dir != "" {
			img, err = loadImage(SpritePath(dir, letter, ext))
		} else {
			img = glyphImage(letter, fontSize)
		}
		if err != nil {
			s.Unload()
			return nil, fmt.Errorf("loading sprite %q: %w", letter, err)
		}

		tex := rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		if tex.ID == 0 {
			s.Unload()
			return nil, fmt.Errorf("uploading sprite %q: texture creation failed", letter)
		}
		rl.SetTextureFilter(tex, rl.FilterBilinear)
		s.textures[letter] = tex
	}

	slog.Info("sprites loaded", "count", len(s.textures), "dir", dir)
	return s, nil
}

func loadImage(path string) (*rl.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	img := rl.LoadImage(path)
	if img == nil || img.Data == nil || img.Width == 0 || img.Height == 0 {
		return nil, fmt.Errorf("decoding %s: unsupported or corrupt image", path)
	}
	return img, nil
}

// glyphImage renders letter in white, centred on a square transparent canvas.
func glyphImage(letter string, fontSize int) *rl.Image {
	img := rl.ImageText(letter, int32(fontSize), rl.White)
	side := max(img.Width, img.Height)
	rl.ImageResizeCanvas(img, side, side, (side-img.Width)/2, (side-img.Height)/2, rl.Blank)
	return img
}

// Texture returns the texture for key.
func (s *SpriteSheet) Texture(key string) (rl.Texture2D, bool) {
	tex, ok := s.textures[key]
	return tex, ok
}

// Len returns the number of loaded textures.
func (s *SpriteSheet) Len() int {
	return len(s.textures)
}

// Draw draws req immediately: the texture stretched to the requested size,
// centred on req.Center and rotated about that centre. Unknown sprites are
// skipped.
func (s *SpriteSheet) Draw(req flock.DrawRequest) {
	tex, ok := s.textures[req.Sprite.Key]
	if !ok {
		return
	}
	src, dst, origin := Placement(tex.Width, tex.Height, req)
	rl.DrawTexturePro(tex, src, dst, origin, float32(req.Rotation*rl.Rad2deg), s.tint)
}

// Placement computes the DrawTexturePro source and destination rectangles
// and the rotation origin for a texture of texW x texH.
func Placement(texW, texH int32, req flock.DrawRequest) (src, dst rl.Rectangle, origin rl.Vector2) {
	w := float32(req.Width)
	h := float32(req.Height)
	src = rl.Rectangle{X: 0, Y: 0, Width: float32(texW), Height: float32(texH)}
	dst = rl.Rectangle{X: float32(req.Center.X), Y: float32(req.Center.Y), Width: w, Height: h}
	origin = rl.Vector2{X: w / 2, Y: h / 2}
	return src, dst, origin
}

// Unload frees resources.
func (s *SpriteSheet) Unload() {
	for key, tex := range s.textures {
		rl.UnloadTexture(tex)
		delete(s.textures, key)
	}
}
