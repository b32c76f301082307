package renderer

import (
	"Skycycle/internal/logger"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// TextureUploader turns decoded images into backend textures
type TextureUploader interface {
	Upload(img image.Image, name string) (*Texture, error)
	Release(tex *Texture)
}

// TextureStats provides debugging and profiling information
type TextureStats struct {
	TotalTextures  int
	CacheHits      int
	CacheMisses    int
	ActiveTextures int
}

// TextureManager manages texture loading, caching, and lifecycle
type TextureManager struct {
	uploader        TextureUploader
	textureCache    map[string]*Texture // path -> texture
	textureRefCount map[*Texture]int    // texture -> reference count
	texturePaths    map[*Texture]string // texture -> path (for debugging)
	mu              sync.RWMutex        // Thread-safe operations
	stats           TextureStats
}

// NewTextureManager creates a new texture manager backed by uploader
func NewTextureManager(uploader TextureUploader) *TextureManager {
	return &TextureManager{
		uploader:        uploader,
		textureCache:    make(map[string]*Texture),
		textureRefCount: make(map[*Texture]int),
		texturePaths:    make(map[*Texture]string),
	}
}

// LoadTexture loads a texture from file or returns the cached texture
// Automatically increments reference count
func (tm *TextureManager) LoadTexture(filePath string) (*Texture, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	// Check if texture is already cached
	if tex, exists := tm.textureCache[filePath]; exists {
		tm.textureRefCount[tex]++
		tm.stats.CacheHits++

		logger.Log.Debug("Texture cache hit",
			zap.String("path", filePath),
			zap.Uint32("textureID", tex.ID),
			zap.Int("refCount", tm.textureRefCount[tex]))

		return tex, nil
	}

	// Cache miss - load texture from disk
	tm.stats.CacheMisses++

	imgFile, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer imgFile.Close()

	img, _, err := image.Decode(imgFile)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}

	tex, err := tm.uploader.Upload(img, filePath)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filePath, err)
	}

	tm.textureCache[filePath] = tex
	tm.textureRefCount[tex] = 1
	tm.texturePaths[tex] = filePath
	tm.stats.TotalTextures++

	logger.Log.Info("Texture loaded and cached",
		zap.String("path", filePath),
		zap.Uint32("textureID", tex.ID),
		zap.Int("width", tex.Width),
		zap.Int("height", tex.Height))

	return tex, nil
}

// ReleaseTexture decrements reference count and frees texture if count reaches 0
func (tm *TextureManager) ReleaseTexture(tex *Texture) {
	if tex == nil {
		return
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	refCount, exists := tm.textureRefCount[tex]
	if !exists {
		logger.Log.Warn("Attempted to release unknown texture",
			zap.Uint32("textureID", tex.ID))
		return
	}

	refCount--
	tm.textureRefCount[tex] = refCount

	if refCount <= 0 {
		tm.uploader.Release(tex)

		path := tm.texturePaths[tex]
		delete(tm.textureCache, path)
		delete(tm.textureRefCount, tex)
		delete(tm.texturePaths, tex)

		logger.Log.Info("Texture freed",
			zap.Uint32("textureID", tex.ID),
			zap.String("path", path))
	}
}

// LoadSkyMaterial builds a six-sided sky material from a directory holding
// one image per face (front.png, back.png, ...). Faces without an image are
// left unbound.
func (tm *TextureManager) LoadSkyMaterial(name, dir string) (*Material, error) {
	mat := NewMaterial(name)
	if dir == "" {
		return mat, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("sky material %s: %w", name, err)
	}

	files := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		base := strings.ToLower(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		files[base] = filepath.Join(dir, e.Name())
	}

	for _, face := range SkyboxFaces {
		path, ok := files[strings.ToLower(face)]
		if !ok {
			logger.Log.Warn("Sky face image missing",
				zap.String("material", name),
				zap.String("face", face),
				zap.String("dir", dir))
			continue
		}
		tex, err := tm.LoadTexture(path)
		if err != nil {
			return nil, fmt.Errorf("sky material %s face %s: %w", name, face, err)
		}
		mat.SetTexture(FaceSlot(face), tex)
	}
	return mat, nil
}

// GetStats returns current texture manager statistics
func (tm *TextureManager) GetStats() TextureStats {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	stats := tm.stats
	stats.ActiveTextures = len(tm.textureRefCount)
	return stats
}

// Clear releases all textures
func (tm *TextureManager) Clear() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for tex := range tm.textureRefCount {
		tm.uploader.Release(tex)
	}

	tm.textureCache = make(map[string]*Texture)
	tm.textureRefCount = make(map[*Texture]int)
	tm.texturePaths = make(map[*Texture]string)

	logger.Log.Info("Texture manager cleared")
}
