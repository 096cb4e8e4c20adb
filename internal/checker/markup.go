package checker

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ResourceRef is one src/href reference found on a resource-bearing tag.
type ResourceRef struct {
	Tag  string `json:"tag"`
	Attr string `json:"attr"`
	URL  string `json:"url"`
}

// PageSignals is the structural fingerprint of one page.
type PageSignals struct {
	Resources       []ResourceRef `json:"links"`
	NavItems        []string      `json:"nav_items"`
	FooterFragments []string      `json:"footer_content"`
	LogoSrc         string        `json:"logo_src,omitempty"`
}

var resourceTags = map[string]struct{}{
	"script": {},
	"link":   {},
	"img":    {},
	"a":      {},
	"iframe": {},
}

// ExtractSignals scans markup in document order and never fails: malformed or
// truncated input yields whatever signals were seen before the tokenizer gave up.
//
// Region tracking uses two independent flags rather than a nesting stack. The
// navigation region opens on <nav>, <header> or any tag whose class contains
// "nav", and closes on </nav> or </header>. The footer region opens on <footer>
// or a class containing "footer", and closes on </footer>.
func ExtractSignals(r io.Reader) PageSignals {
	signals := PageSignals{
		Resources:       []ResourceRef{},
		NavItems:        []string{},
		FooterFragments: []string{},
	}

	z := html.NewTokenizer(r)
	inNav, inFooter := false, false

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a read error; either way extraction ends here.
			return signals

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			attrs := readAttrs(z, hasAttr)
			class := attrs["class"]

			if tag == "nav" || tag == "header" || strings.Contains(class, "nav") {
				inNav = true
			}
			if tag == "footer" || strings.Contains(class, "footer") {
				inFooter = true
			}

			if _, ok := resourceTags[tag]; ok {
				collectResources(&signals, tag, attrs)
			}

			if inNav && tag == "a" {
				signals.NavItems = append(signals.NavItems, attrs["href"])
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "nav", "header":
				inNav = false
			case "footer":
				inFooter = false
			}

		case html.TextToken:
			if !inFooter {
				continue
			}
			if text := strings.TrimSpace(string(z.Text())); text != "" {
				signals.FooterFragments = append(signals.FooterFragments, text)
			}
		}
	}
}

// ExtractSignalsString is ExtractSignals over an in-memory document.
func ExtractSignalsString(doc string) PageSignals {
	return ExtractSignals(strings.NewReader(doc))
}

func readAttrs(z *html.Tokenizer, hasAttr bool) map[string]string {
	attrs := make(map[string]string)
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		k := string(key)
		// first occurrence wins, as browsers do for duplicated attributes
		if _, seen := attrs[k]; !seen {
			attrs[k] = string(val)
		}
	}
	return attrs
}

func collectResources(signals *PageSignals, tag string, attrs map[string]string) {
	for _, attr := range []string{"src", "href"} {
		u, ok := attrs[attr]
		if !ok {
			continue
		}
		signals.Resources = append(signals.Resources, ResourceRef{Tag: tag, Attr: attr, URL: u})

		if tag == "img" && signals.LogoSrc == "" && isLogo(u, attrs) {
			signals.LogoSrc = u
		}
	}
}

func isLogo(u string, attrs map[string]string) bool {
	for _, v := range []string{u, attrs["alt"], attrs["class"]} {
		if strings.Contains(strings.ToLower(v), "logo") {
			return true
		}
	}
	return false
}
