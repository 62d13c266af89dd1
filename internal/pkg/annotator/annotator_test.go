package annotator

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoinspect/inspection-service/internal/entity"
)

// fillImageWithColor заполняет изображение одним цветом
func fillImageWithColor(img *image.NRGBA, c color.NRGBA) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func encodePNG(t *testing.T, img image.Image) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestAnnotateDrawsCircle(t *testing.T) {
	background := color.NRGBA{R: 40, G: 40, B: 40, A: 255}

	tests := []struct {
		name        string
		width       int
		height      int
		region      entity.AnnotationRegion
		checkPixelX int
		checkPixelY int
	}{
		{
			name:   "centered box",
			width:  400,
			height: 400,
			region: entity.AnnotationRegion{
				Box:      entity.BoundingBox{XMin: 0.25, YMin: 0.25, XMax: 0.75, YMax: 0.75},
				Severity: entity.IssueSeveritySevere,
			},
			// circle of radius 100 around (200,200): (300,200) is on the stroke
			checkPixelX: 300,
			checkPixelY: 200,
		},
		{
			name:   "wide box radius follows width",
			width:  600,
			height: 300,
			region: entity.AnnotationRegion{
				Box:      entity.BoundingBox{XMin: 0.1, YMin: 0.4, XMax: 0.5, YMax: 0.6},
				Severity: entity.IssueSeverityMinor,
			},
			// center (180,150), radius 0.2*600=120: (300,150) is on the stroke
			checkPixelX: 300,
			checkPixelY: 150,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := image.NewNRGBA(image.Rect(0, 0, tt.width, tt.height))
			fillImageWithColor(original, background)

			a := New()
			annotated, format, err := a.Annotate(encodePNG(t, original), "photo.png", []entity.AnnotationRegion{tt.region})
			require.NoError(t, err)
			assert.Equal(t, "png", format)
			assert.Equal(t, tt.width, annotated.Bounds().Dx())
			assert.Equal(t, tt.height, annotated.Bounds().Dy())

			stroke := annotated.At(tt.checkPixelX, tt.checkPixelY)
			assert.NotEqual(t, background, colorToNRGBA(stroke), "expected stroke pixel at (%d,%d)", tt.checkPixelX, tt.checkPixelY)

			// center of the circle stays untouched
			cx, cy, _ := tt.region.Box.Circle()
			center := annotated.At(int(cx*float64(tt.width)), int(cy*float64(tt.height)))
			assert.Equal(t, background, colorToNRGBA(center))
		})
	}
}

func TestAnnotateClipsOutOfBoundsCircle(t *testing.T) {
	original := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	fillImageWithColor(original, color.NRGBA{R: 10, G: 10, B: 10, A: 255})

	// box hugging the right edge: circle spills past the image
	region := entity.AnnotationRegion{
		Box: entity.BoundingBox{XMin: 0.8, YMin: 0.3, XMax: 1.0, YMax: 0.7},
	}

	a := New()
	annotated, _, err := a.Annotate(encodePNG(t, original), "edge.png", []entity.AnnotationRegion{region})
	require.NoError(t, err)
	assert.Equal(t, 100, annotated.Bounds().Dx())
	assert.Equal(t, 100, annotated.Bounds().Dy())
}

func TestAnnotateNoRegions(t *testing.T) {
	background := color.NRGBA{R: 77, G: 88, B: 99, A: 255}
	original := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	fillImageWithColor(original, background)

	a := New()
	annotated, _, err := a.Annotate(encodePNG(t, original), "clean.png", nil)
	require.NoError(t, err)

	assert.Equal(t, background, colorToNRGBA(annotated.At(25, 25)))
	assert.Equal(t, background, colorToNRGBA(annotated.At(0, 0)))
}

func TestAnnotateUnsupportedFormat(t *testing.T) {
	a := New()
	_, _, err := a.Annotate(bytes.NewReader([]byte("not an image")), "photo.bmp", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestThumbnail(t *testing.T) {
	tests := []struct {
		name           string
		originalWidth  int
		originalHeight int
		maxWidth       int
		maxHeight      int
	}{
		{
			name:           "landscape thumbnail",
			originalWidth:  800,
			originalHeight: 600,
			maxWidth:       100,
			maxHeight:      100,
		},
		{
			name:           "portrait thumbnail",
			originalWidth:  300,
			originalHeight: 500,
			maxWidth:       120,
			maxHeight:      90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := image.NewNRGBA(image.Rect(0, 0, tt.originalWidth, tt.originalHeight))
			fillImageWithColor(original, color.NRGBA{R: 50, G: 100, B: 150, A: 255})

			a := New()
			thumb, _, err := a.Thumbnail(encodePNG(t, original), "photo.png", tt.maxWidth, tt.maxHeight)
			require.NoError(t, err)
			assert.True(t, thumb.Bounds().Dx() <= tt.maxWidth)
			assert.True(t, thumb.Bounds().Dy() <= tt.maxHeight)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	original := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	fillImageWithColor(original, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	a := New()

	var jpegBuf bytes.Buffer
	require.NoError(t, a.Encode(&jpegBuf, original, "jpeg"))
	_, err := jpeg.Decode(&jpegBuf)
	assert.NoError(t, err)

	var pngBuf bytes.Buffer
	require.NoError(t, a.Encode(&pngBuf, original, "png"))
	_, err = png.Decode(&pngBuf)
	assert.NoError(t, err)

	// GIF остаётся GIF: байты аннотированного файла должны совпадать
	// с Content-Type, выводимым из расширения оригинала
	var gifBuf bytes.Buffer
	require.NoError(t, a.Encode(&gifBuf, original, "gif"))
	_, err = gif.Decode(&gifBuf)
	assert.NoError(t, err)
}

func colorToNRGBA(c color.Color) color.NRGBA {
	r, g, b, a := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
