package s3provider

import "testing"

func TestFullKeyAppliesPrefix(t *testing.T) {
	p := &Provider{keyPrefix: "chunks/"}
	if got := p.fullKey("abc123"); got != "chunks/abc123" {
		t.Fatalf("fullKey = %q, want chunks/abc123", got)
	}
}

func TestFullKeyNoPrefix(t *testing.T) {
	p := &Provider{}
	if got := p.fullKey("abc123"); got != "abc123" {
		t.Fatalf("fullKey = %q, want abc123", got)
	}
}

func TestIsNotFoundError(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"NoSuchKey: the key does not exist", true},
		{"404 Not Found", true},
		{"access denied", false},
	}
	for _, c := range cases {
		if got := isNotFoundError(&stringError{c.msg}); got != c.want {
			t.Errorf("isNotFoundError(%q) = %v, want %v", c.msg, got, c.want)
		}
	}
	if isNotFoundError(nil) {
		t.Error("isNotFoundError(nil) should be false")
	}
}

type stringError struct{ s string }

func (e *stringError) Error() string { return e.s }
