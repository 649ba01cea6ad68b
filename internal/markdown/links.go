package markdown

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractLinks collects the href destinations of anchor elements in an HTML
// fragment, in document order. Used to surface the outbound links of rendered
// tag explainers (license/attribution sources) without another markdown pass.
func ExtractLinks(fragment string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && attr.Val != "" {
					links = append(links, attr.Val)
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}
