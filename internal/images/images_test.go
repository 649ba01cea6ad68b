package images

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func TestFileSizer_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.png")
	writePNG(t, path, 192, 128)

	w, h, err := FileSizer{}.Size(path)
	require.NoError(t, err)
	require.Equal(t, 192, w)
	require.Equal(t, 128, h)
}

func TestFileSizer_MissingFile(t *testing.T) {
	_, _, err := FileSizer{}.Size(filepath.Join(t.TempDir(), "absent.png"))
	require.ErrorIs(t, err, ErrMeasureFailed)
}

func TestFileSizer_SVGWidthHeight(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icon.svg")
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="24px" height="16"><rect/></svg>`
	require.NoError(t, os.WriteFile(path, []byte(svg), 0o644))

	w, h, err := FileSizer{}.Size(path)
	require.NoError(t, err)
	require.Equal(t, 24, w)
	require.Equal(t, 16, h)
}

func TestFileSizer_SVGViewBoxFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.svg")
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200.4 100"><rect/></svg>`
	require.NoError(t, os.WriteFile(path, []byte(svg), 0o644))

	w, h, err := FileSizer{}.Size(path)
	require.NoError(t, err)
	require.Equal(t, 200, w)
	require.Equal(t, 100, h)
}

func TestFileSizer_SVGNoDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.svg")
	require.NoError(t, os.WriteFile(path, []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), 0o644))

	_, _, err := FileSizer{}.Size(path)
	require.ErrorIs(t, err, ErrNoDimensions)
}

func TestIsVector(t *testing.T) {
	require.True(t, IsVector("shapes/angular.svg"))
	require.True(t, IsVector("shapes/ANGULAR.SVG"))
	require.False(t, IsVector("shapes/angular.png"))
}
