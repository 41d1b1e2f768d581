// Package imageutil inspects capture bytes returned by the SnapAPI client.
package imageutil

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Format is a capture format recognized from magic bytes.
type Format string

const (
	FormatUnknown Format = ""
	FormatPNG     Format = "png"
	FormatJPEG    Format = "jpeg"
	FormatWebP    Format = "webp"
	FormatGIF     Format = "gif"
	FormatPDF     Format = "pdf"
	FormatMP4     Format = "mp4"
	FormatWebM    Format = "webm"
)

var (
	magicPNG  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	magicJPEG = []byte{0xFF, 0xD8, 0xFF}
	magicPDF  = []byte("%PDF-")
	magicWebM = []byte{0x1A, 0x45, 0xDF, 0xA3}
)

// Detect sniffs the format of data.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, magicPNG):
		return FormatPNG
	case bytes.HasPrefix(data, magicJPEG):
		return FormatJPEG
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return FormatWebP
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return FormatGIF
	case bytes.HasPrefix(data, magicPDF):
		return FormatPDF
	case len(data) >= 8 && string(data[4:8]) == "ftyp":
		return FormatMP4
	case bytes.HasPrefix(data, magicWebM):
		return FormatWebM
	default:
		return FormatUnknown
	}
}

// ContentType returns the MIME type of f, or application/octet-stream.
func ContentType(f Format) string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	case FormatGIF:
		return "image/gif"
	case FormatPDF:
		return "application/pdf"
	case FormatMP4:
		return "video/mp4"
	case FormatWebM:
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension of f without the dot.
func Extension(f Format) string {
	switch f {
	case FormatJPEG:
		return "jpg"
	case FormatUnknown:
		return "bin"
	default:
		return string(f)
	}
}

// IsImage reports whether f can be decoded by Decode.
func IsImage(f Format) bool {
	switch f {
	case FormatPNG, FormatJPEG, FormatWebP, FormatGIF:
		return true
	}
	return false
}

// DecodeConfig returns the dimensions of an image without decoding pixels.
func DecodeConfig(data []byte) (image.Config, Format, error) {
	f := Detect(data)
	if !IsImage(f) {
		return image.Config{}, f, fmt.Errorf("imageutil: %s is not a decodable image", describe(f))
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, f, fmt.Errorf("imageutil: decode %s config: %w", f, err)
	}
	return cfg, f, nil
}

// Decode decodes a png, jpeg, gif or webp capture.
func Decode(data []byte) (image.Image, Format, error) {
	f := Detect(data)
	if !IsImage(f) {
		return nil, f, fmt.Errorf("imageutil: %s is not a decodable image", describe(f))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, f, fmt.Errorf("imageutil: decode %s: %w", f, err)
	}
	return img, f, nil
}

func describe(f Format) string {
	if f == FormatUnknown {
		return "unknown format"
	}
	return string(f)
}
