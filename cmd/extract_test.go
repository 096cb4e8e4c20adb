package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/khanhnv2901/siteverify/internal/checker"
)

func TestExtractTo(t *testing.T) {
	doc := `<html><body>
<header><nav><a href="/">Home</a><a href="/about.html">About</a></nav></header>
<img src="/img/logo.png" alt="Logo">
<footer><p>© 2024 Example</p></footer>
</body></html>`

	var out bytes.Buffer
	if err := extractTo(&out, strings.NewReader(doc)); err != nil {
		t.Fatalf("extract: %v", err)
	}

	var got checker.PageSignals
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(got.NavItems) != 2 || got.NavItems[1] != "/about.html" {
		t.Fatalf("unexpected nav items %v", got.NavItems)
	}
	if got.LogoSrc != "/img/logo.png" {
		t.Fatalf("unexpected logo %q", got.LogoSrc)
	}
	if len(got.FooterFragments) != 1 {
		t.Fatalf("unexpected footer fragments %v", got.FooterFragments)
	}
}
