package media

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frelanci/orderchat/internal/domain/model"
)

// Minimal valid PNG header, enough for content-type sniffing.
var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func TestComposeImageFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.png")
	if err := os.WriteFile(path, pngBytes, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	uri, err := Compose(Attachment{URI: path, Type: model.MediaTypeImage})
	if err != nil {
		t.Fatalf("compose returned error: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("expected png data uri, got %q", uri)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	if string(raw) != string(pngBytes) {
		t.Fatal("decoded payload differs from the source file")
	}
}

func TestComposeImagePassesThroughDataURI(t *testing.T) {
	existing := "data:image/jpeg;base64,AAAA"
	uri, err := Compose(Attachment{URI: existing, Type: model.MediaTypeImage})
	if err != nil {
		t.Fatalf("compose returned error: %v", err)
	}
	if uri != existing {
		t.Fatalf("expected pass-through of existing data uri, got %q", uri)
	}
}

func TestComposeImageRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("plain text, definitely not a picture"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Compose(Attachment{URI: path, Type: model.MediaTypeImage}); err == nil {
		t.Fatal("expected error for non-image payload")
	}
}

func TestComposeImageMissingFile(t *testing.T) {
	if _, err := Compose(Attachment{URI: "/nonexistent/pic.png", Type: model.MediaTypeImage}); err == nil {
		t.Fatal("expected error for unreadable file")
	}
}

func TestComposeVideoPassesThroughURI(t *testing.T) {
	uri, err := Compose(Attachment{URI: "file:///videos/demo.mp4", Type: model.MediaTypeVideo})
	if err != nil {
		t.Fatalf("compose returned error: %v", err)
	}
	if uri != "file:///videos/demo.mp4" {
		t.Fatalf("expected raw uri pass-through, got %q", uri)
	}

	if _, err := Compose(Attachment{URI: "", Type: model.MediaTypeVideo}); err == nil {
		t.Fatal("expected error for empty video uri")
	}
}

func TestComposeUnsupportedType(t *testing.T) {
	if _, err := Compose(Attachment{URI: "x", Type: model.MediaType("audio")}); err == nil {
		t.Fatal("expected error for unsupported media type")
	}
}
