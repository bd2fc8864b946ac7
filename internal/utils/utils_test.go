package utils

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"rasdfs@gmail.com",
		"rasdfs@piosdf.com",
		"asdfj.jh@pio.sdf.com",
	}
	invalid := []string{
		"asdjfkjsdhf",
		"@asdfjaskh",
		"asdfasdf@",
	}

	for _, v := range valid {
		if !ValidateEmail(v) {
			t.Errorf("Email should be valid: %s", v)
		}
	}

	for _, v := range invalid {
		if ValidateEmail(v) {
			t.Errorf("Email should be invalid: %s", v)
		}
	}
}

func TestGenToken(t *testing.T) {
	a := GenToken(32)
	b := GenToken(32)
	if len(a) != 64 {
		t.Errorf("GenToken(32) should be 64 hex chars, got %d", len(a))
	}
	if a == b {
		t.Error("Two tokens should never collide")
	}
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	html := RenderMarkdown("hello <script>alert(1)</script> **world**")
	if strings.Contains(html, "<script>") {
		t.Errorf("Script tags must be stripped, got %q", html)
	}
	if !strings.Contains(html, "<strong>world</strong>") {
		t.Errorf("Markdown should render, got %q", html)
	}
}
