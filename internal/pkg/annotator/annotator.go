package annotator

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/autoinspect/inspection-service/internal/entity"
)

// Annotator отрисовывает оверлеи повреждений: по кругу на каждое
// найденное повреждение, с центром в середине рамки и радиусом в
// половину её большей стороны.
type Annotator interface {
	Annotate(src io.Reader, filename string, regions []entity.AnnotationRegion) (image.Image, string, error)
	Thumbnail(src io.Reader, filename string, width, height int) (image.Image, string, error)
	Encode(dst io.Writer, img image.Image, format string) error
}

type annotator struct{}

func New() Annotator {
	return &annotator{}
}

func (a *annotator) Annotate(src io.Reader, filename string, regions []entity.AnnotationRegion) (image.Image, string, error) {
	img, format, err := decode(src, filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %v", err)
	}

	canvas := imaging.Clone(img)
	bounds := canvas.Bounds()
	width := float64(bounds.Dx())
	height := float64(bounds.Dy())

	for _, region := range regions {
		cx, cy, r := region.Box.Circle()

		// Нормализованные координаты масштабируются размером фото.
		// Радиус берётся по большей пиксельной стороне рамки, чтобы
		// узкие рамки тоже давали заметный круг.
		px := cx * width
		py := cy * height
		pr := math.Max(r*width, r*height)
		if pr < minRadius {
			pr = minRadius
		}

		drawCircle(canvas, px, py, pr, strokeWidth(bounds), severityColor(region.Severity))
	}

	return canvas, format, nil
}

func (a *annotator) Thumbnail(src io.Reader, filename string, width, height int) (image.Image, string, error) {
	img, format, err := decode(src, filename)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %v", err)
	}

	return imaging.Thumbnail(img, width, height, imaging.Lanczos), format, nil
}

func (a *annotator) Encode(dst io.Writer, img image.Image, format string) error {
	switch format {
	case "jpeg":
		return jpeg.Encode(dst, img, &jpeg.Options{Quality: 90})
	case "png":
		return png.Encode(dst, img)
	case "gif":
		// Анимированный GIF сводится к первому кадру, но формат
		// сохраняется, чтобы Content-Type при отдаче совпадал с байтами
		return gif.Encode(dst, img, nil)
	default:
		return jpeg.Encode(dst, img, &jpeg.Options{Quality: 90})
	}
}

const minRadius = 8.0

func decode(src io.Reader, filename string) (image.Image, string, error) {
	ext := filepath.Ext(filename)
	switch ext {
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(src)
		return img, "jpeg", err
	case ".png":
		img, err := png.Decode(src)
		return img, "png", err
	case ".gif":
		gifImg, err := gif.DecodeAll(src)
		if err != nil {
			return nil, "", err
		}
		if len(gifImg.Image) == 0 {
			return nil, "", fmt.Errorf("no frames in GIF")
		}
		return gifImg.Image[0], "gif", nil
	default:
		return nil, "", fmt.Errorf("unsupported format: %s", ext)
	}
}

// strokeWidth scales the circle outline with the image so overlays stay
// visible on large photos.
func strokeWidth(bounds image.Rectangle) float64 {
	larger := bounds.Dx()
	if bounds.Dy() > larger {
		larger = bounds.Dy()
	}
	w := float64(larger) / 300.0
	if w < 2 {
		w = 2
	}
	return w
}

func severityColor(severity entity.IssueSeverity) color.NRGBA {
	switch severity {
	case entity.IssueSeveritySevere:
		return color.NRGBA{R: 220, G: 38, B: 38, A: 255}
	case entity.IssueSeverityModerate:
		return color.NRGBA{R: 234, G: 120, B: 22, A: 255}
	default:
		return color.NRGBA{R: 234, G: 190, B: 20, A: 255}
	}
}

// drawCircle обводит контур круга на холсте. Пиксели за пределами
// холста отсекаются, а не отбрасывают весь круг.
func drawCircle(canvas *image.NRGBA, cx, cy, radius, stroke float64, c color.NRGBA) {
	bounds := canvas.Bounds()
	outer := radius + stroke/2
	inner := radius - stroke/2
	if inner < 0 {
		inner = 0
	}

	minX := int(math.Floor(cx - outer))
	maxX := int(math.Ceil(cx + outer))
	minY := int(math.Floor(cy - outer))
	maxY := int(math.Ceil(cy + outer))

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			if d >= inner && d <= outer {
				canvas.SetNRGBA(x, y, c)
			}
		}
	}
}

func describe(task entity.AnnotationTask) logrus.Fields {
	return logrus.Fields{
		"photo_id":      task.PhotoID,
		"inspection_id": task.InspectionID,
		"regions":       len(task.Regions),
	}
}
