package randx

import (
	"strings"
	"testing"
)

func TestBase62String(t *testing.T) {
	s, err := Base62String(16)
	if err != nil {
		t.Fatalf("Base62String returned error: %v", err)
	}
	if len(s) != 16 {
		t.Errorf("len = %d, want 16", len(s))
	}
	for _, c := range s {
		if !strings.ContainsRune(Base62Chars, c) {
			t.Errorf("unexpected character %q", c)
		}
	}
}

func TestStateTokenLength(t *testing.T) {
	token, err := StateToken()
	if err != nil {
		t.Fatalf("StateToken returned error: %v", err)
	}
	if len(token) != StateTokenLength {
		t.Errorf("len = %d, want %d", len(token), StateTokenLength)
	}
}

func TestPhotoObjectKey(t *testing.T) {
	key := PhotoObjectKey(42, "Sunset.JPG")

	if !strings.HasPrefix(key, "posts/42/") {
		t.Errorf("key %q must be namespaced under posts/42/", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Errorf("key %q must keep a lowercased extension", key)
	}
}

func TestProfileImageKey(t *testing.T) {
	key := ProfileImageKey(7, "me.png")

	if !strings.HasPrefix(key, "profiles/7/") {
		t.Errorf("key %q must be namespaced under profiles/7/", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("key %q must keep the extension", key)
	}
}

func TestPhotoObjectKeyNoExtension(t *testing.T) {
	key := PhotoObjectKey(1, "photo")

	if strings.Contains(key[len("posts/1/"):], ".") {
		t.Errorf("key %q must have no extension when the filename has none", key)
	}
}
