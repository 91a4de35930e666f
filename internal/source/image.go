package source

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"
)

type ImageSource struct {
	path string

	once sync.Once
	img  image.Image
	err  error
}

func NewImageSource(path string) *ImageSource {
	return &ImageSource{path: path}
}

func (s *ImageSource) Size() (float64, float64, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return float64(cfg.Width), float64(cfg.Height), nil
}

func (s *ImageSource) Image() (image.Image, error) {
	s.once.Do(func() {
		f, err := os.Open(s.path)
		if err != nil {
			s.err = err
			return
		}
		defer f.Close()
		s.img, _, s.err = image.Decode(f)
	})
	return s.img, s.err
}

func (s *ImageSource) Close() error {
	return nil
}
