package images

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// svgSize extracts dimensions from the root <svg> element: width/height
// attributes first, then the viewBox. Unit suffixes like "px" are stripped;
// relative units (em, %) are treated as unusable.
func svgSize(path string) (int, int, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %v", ErrMeasureFailed, path, err)
	}
	defer func() { _ = f.Close() }()

	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %s: %v", ErrMeasureFailed, path, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != "svg" {
			// Root element is not <svg>: not an SVG document.
			return 0, 0, fmt.Errorf("%w: %s: root element is <%s>", ErrMeasureFailed, path, start.Name.Local)
		}

		var widthAttr, heightAttr, viewBox string
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "width":
				widthAttr = attr.Value
			case "height":
				heightAttr = attr.Value
			case "viewBox":
				viewBox = attr.Value
			}
		}

		if w, h, ok := parseLengthPair(widthAttr, heightAttr); ok {
			return w, h, nil
		}
		if w, h, ok := parseViewBox(viewBox); ok {
			return w, h, nil
		}
		return 0, 0, fmt.Errorf("%w: %s", ErrNoDimensions, path)
	}

	return 0, 0, fmt.Errorf("%w: %s: empty document", ErrMeasureFailed, path)
}

func parseLengthPair(w, h string) (int, int, bool) {
	wv, ok := parseLength(w)
	if !ok {
		return 0, 0, false
	}
	hv, ok := parseLength(h)
	if !ok {
		return 0, 0, false
	}
	return wv, hv, true
}

func parseLength(raw string) (int, bool) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "px"))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return int(math.Round(v)), true
}

func parseViewBox(raw string) (int, int, bool) {
	fields := strings.FieldsFunc(raw, func(r rune) bool { return r == ' ' || r == ',' })
	parts := fields[:0]
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	if len(parts) != 4 {
		return 0, 0, false
	}
	w, err1 := strconv.ParseFloat(parts[2], 64)
	h, err2 := strconv.ParseFloat(parts[3], 64)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return int(math.Round(w)), int(math.Round(h)), true
}
