package ocr

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// TesseractRecognizer shells out to the tesseract binary. It needs the
// binary on PATH and is only enabled when configured.
type TesseractRecognizer struct {
	Binary string
}

func NewTesseractRecognizer(binary string) *TesseractRecognizer {
	if binary == "" {
		binary = "tesseract"
	}
	return &TesseractRecognizer{Binary: binary}
}

func (r *TesseractRecognizer) Recognize(ctx context.Context, image io.Reader) (string, error) {
	// stdin in, stdout out, no intermediate files
	cmd := exec.CommandContext(ctx, r.Binary, "stdin", "stdout", "-l", "eng", "--psm", "3")
	cmd.Stdin = image
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil
}

// PassthroughRecognizer treats the upload as already-extracted text. Used in
// demo mode and in tests where no OCR engine is available.
type PassthroughRecognizer struct{}

func (PassthroughRecognizer) Recognize(_ context.Context, image io.Reader) (string, error) {
	b, err := io.ReadAll(image)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
