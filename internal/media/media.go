package media

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/frelanci/orderchat/internal/domain/model"
)

// Attachment is a locally selected media item before composition.
type Attachment struct {
	URI  string
	Type model.MediaType
}

// Compose converts an attachment into the wire representation carried inside
// the message payload.
//
// Still images are inlined as data:<mime>;base64 URIs so a message with its
// attachment travels in a single request. Videos are passed through as raw
// device URIs: inlining them is impractical, and no out-of-band upload
// endpoint exists in this contract, so a video URL is not guaranteed to be
// reachable from other devices.
func Compose(att Attachment) (string, error) {
	switch att.Type {
	case model.MediaTypeImage:
		if strings.HasPrefix(att.URI, "data:") {
			return att.URI, nil
		}
		raw, err := os.ReadFile(att.URI)
		if err != nil {
			return "", fmt.Errorf("read image: %w", err)
		}
		mime := http.DetectContentType(raw)
		if !strings.HasPrefix(mime, "image/") {
			return "", fmt.Errorf("attachment %s is not an image (%s)", att.URI, mime)
		}
		encoded := base64.StdEncoding.EncodeToString(raw)
		return fmt.Sprintf("data:%s;base64,%s", mime, encoded), nil
	case model.MediaTypeVideo:
		if att.URI == "" {
			return "", fmt.Errorf("empty video uri")
		}
		return att.URI, nil
	default:
		return "", fmt.Errorf("unsupported media type %q", att.Type)
	}
}
