package scene

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"planet-render/internal/logger"
)

// CubeFaces names the six faces in GL order: +X, -X, +Y, -Y, +Z, -Z.
var CubeFaces = [6]string{"right", "left", "top", "bottom", "front", "back"}

// Cubemap holds the six decoded faces of a skybox. Every present face has
// Size×Size pixels. A face that failed to load is nil.
type Cubemap struct {
	Name  string
	Size  int
	Faces [6]*Texture
	GLID  uint32
}

// CubeFacePaths returns dir/<face><ext> for every face.
func CubeFacePaths(dir, ext string) [6]string {
	var paths [6]string
	for i, face := range CubeFaces {
		paths[i] = filepath.Join(dir, face+ext)
	}
	return paths
}

// LoadCubeFaces decodes the faces concurrently and resizes them to a common
// square size, taken from the largest face. Faces that cannot be read are
// logged and left nil. An error is returned only when no face loaded.
func LoadCubeFaces(ctx context.Context, paths [6]string) (*Cubemap, error) {
	var (
		imgs [6]image.Image
		wg   sync.WaitGroup
		sem  = semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))
	)

	for i, path := range paths {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, fmt.Errorf("load cubemap: %w", err)
		}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer sem.Release(1)

			img, err := decodeFile(path)
			if err != nil {
				logger.Log.Warn("skybox face not loaded",
					zap.String("face", CubeFaces[i]), zap.Error(err))
				return
			}
			imgs[i] = img
		}(i, path)
	}
	wg.Wait()

	size := 0
	for _, img := range imgs {
		if img == nil {
			continue
		}
		b := img.Bounds()
		size = max(size, b.Dx(), b.Dy())
	}
	if size == 0 {
		return nil, fmt.Errorf("load cubemap %q: no face could be loaded", filepath.Dir(paths[0]))
	}

	cm := &Cubemap{Name: filepath.Dir(paths[0]), Size: size}
	for i, img := range imgs {
		if img == nil {
			continue
		}
		cm.Faces[i] = TextureFromImage(CubeFaces[i], squareFace(img, size))
	}
	return cm, nil
}

func squareFace(img image.Image, size int) image.Image {
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return img
	}
	return resize.Resize(uint(size), uint(size), img, resize.Bilinear)
}

func decodeFile(path string) (image.Image, error) {
	tex, err := LoadTexture(path)
	if err != nil {
		return nil, err
	}
	return &image.RGBA{
		Pix:    tex.Pixels,
		Stride: 4 * tex.Width,
		Rect:   image.Rect(0, 0, tex.Width, tex.Height),
	}, nil
}

// Missing reports the names of faces that failed to load.
func (c *Cubemap) Missing() []string {
	var out []string
	for i, f := range c.Faces {
		if f == nil {
			out = append(out, CubeFaces[i])
		}
	}
	return out
}
