package loader

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ivlev/ssconv/internal/logging"
	"github.com/ivlev/ssconv/internal/motion"
)

// ProbeImages fills in the size of images that the document left out by
// reading the file header. Files that cannot be read keep a zero size;
// savers then skip clipping against them.
func ProbeImages(images []motion.Image, dir string) {
	for i := range images {
		img := &images[i]
		if img.HasSize() {
			continue
		}
		path := img.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		cfg, format, err := probe(path)
		if err != nil {
			logging.Logger().Warn("image size unknown", "image", img.ID, "path", path, "err", err)
			continue
		}
		img.Width, img.Height = cfg.Width, cfg.Height
		if img.BPP == 0 {
			img.BPP = bitsPerPixel(cfg.ColorModel)
		}
		logging.Logger().Debug("image probed", "image", img.ID, "format", format, "width", img.Width, "height", img.Height)
	}
}

func probe(path string) (image.Config, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer f.Close()

	return image.DecodeConfig(f)
}

func bitsPerPixel(m color.Model) int {
	switch m {
	case color.GrayModel, color.AlphaModel:
		return 8
	case color.Gray16Model, color.Alpha16Model:
		return 16
	case color.RGBA64Model, color.NRGBA64Model:
		return 64
	}
	if _, ok := m.(color.Palette); ok {
		return 8
	}
	return 32
}
