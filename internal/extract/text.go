package extract

import "io"

// TextExtractor handles plain text uploads.
type TextExtractor struct{}

func (e *TextExtractor) Extract(r io.Reader, size int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
