package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// DecodeImage reads a PNG or JPEG file
func DecodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// PlaceholderImage is the 8×8 magenta and black checkerboard drawn in place
// of textures that failed to load.
func PlaceholderImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	magenta := color.NRGBA{R: 255, B: 255, A: 255}
	black := color.NRGBA{A: 255}
	for y := range 8 {
		for x := range 8 {
			if (x/4+y/4)%2 == 0 {
				img.SetNRGBA(x, y, magenta)
			} else {
				img.SetNRGBA(x, y, black)
			}
		}
	}
	return img
}

// Preload decodes the named image files in parallel on a worker pool.
// Images that fail to decode are left out of the result and their errors joined.
func Preload(ctx context.Context, paths map[string]string, workers int, logger *zap.Logger) (map[string]image.Image, error) {
	if len(paths) == 0 {
		return map[string]image.Image{}, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	pool, err := ants.NewPool(min(workers, len(paths)), ants.WithPanicHandler(func(p any) {
		logger.Error("texture decode panicked", zap.Any("panic", p))
	}))
	if err != nil {
		return nil, fmt.Errorf("preload: %w", err)
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]image.Image, len(paths))
		errs    []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for name, path := range paths {
		if err := ctx.Err(); err != nil {
			fail(err)
			break
		}

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			img, err := DecodeImage(path)
			if err != nil {
				fail(fmt.Errorf("texture %s: %w", name, err))
				return
			}
			mu.Lock()
			results[name] = img
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			fail(fmt.Errorf("texture %s: %w", name, err))
		}
	}
	wg.Wait()

	logger.Debug("textures decoded", zap.Int("ok", len(results)), zap.Int("failed", len(errs)))
	return results, errors.Join(errs...)
}
