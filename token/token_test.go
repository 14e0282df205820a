package token

import (
	"regexp"
	"testing"
)

var uuidV4Shape = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestNewShape(t *testing.T) {
	tok := New()
	if !uuidV4Shape.MatchString(tok) {
		t.Fatalf("token %q does not match UUID v4 shape", tok)
	}
}

func TestNewNoCollisions(t *testing.T) {
	seen := make(map[string]struct{}, 100000)
	for i := 0; i < 100000; i++ {
		tok := New()
		if _, dup := seen[tok]; dup {
			t.Fatalf("token collision after %d draws: %s", i, tok)
		}
		seen[tok] = struct{}{}
	}
}
