package utils

import (
	"encoding/base64"
	"strings"

	"github.com/VDronovVladislav/foodgram-project-react/domain"
)

// DecodeImageDataURI decodes "data:image/<subtype>;base64,<payload>" into the
// raw bytes and a file extension derived from the subtype.
func DecodeImageDataURI(dataURI string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(dataURI, ";base64,")
	if !ok || !strings.HasPrefix(header, "data:image/") {
		return nil, "", domain.ErrInvalidImage
	}

	ext := strings.ToLower(strings.TrimPrefix(header, "data:image/"))
	switch ext {
	case "":
		return nil, "", domain.ErrInvalidImage
	case "jpeg":
		ext = "jpg"
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", domain.ErrInvalidImage
	}
	if len(data) == 0 {
		return nil, "", domain.ErrInvalidImage
	}
	return data, ext, nil
}
