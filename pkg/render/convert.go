package render

import (
	"bytes"
	"fmt"
	"os/exec"
)

// rsvgBinary is the converter used for SVG to PNG/PDF conversion.
const rsvgBinary = "rsvg-convert"

// ToPNG converts SVG bytes to PNG at the given scale factor.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return convert(svg, "--format", "png", "--zoom", fmt.Sprintf("%g", scale))
}

// ToPDF converts SVG bytes to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "--format", "pdf")
}

func convert(svg []byte, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(rsvgBinary); err != nil {
		return nil, fmt.Errorf("%s not found in PATH (install librsvg): %w", rsvgBinary, err)
	}

	cmd := exec.Command(rsvgBinary, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", rsvgBinary, err, stderr.String())
	}
	return out.Bytes(), nil
}
