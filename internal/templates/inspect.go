package templates

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// AssetRefs are the asset references found in a rendered document, in
// document order.
type AssetRefs struct {
	Scripts []string
	Styles  []string
}

// InspectAssets parses rendered HTML and collects the src of every script
// element and the href of every stylesheet link.
func InspectAssets(r io.Reader) (AssetRefs, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return AssetRefs{}, fmt.Errorf("parse rendered HTML: %w", err)
	}

	var refs AssetRefs
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script":
				if src := getAttr(n, "src"); src != "" {
					refs.Scripts = append(refs.Scripts, src)
				}
			case "link":
				if isStylesheet(n) {
					if href := getAttr(n, "href"); href != "" {
						refs.Styles = append(refs.Styles, href)
					}
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return refs, nil
}

func isStylesheet(n *html.Node) bool {
	for _, rel := range strings.Fields(getAttr(n, "rel")) {
		if strings.EqualFold(rel, "stylesheet") {
			return true
		}
	}
	return false
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
