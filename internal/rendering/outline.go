package rendering

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Heading is one heading of a rendered document.
type Heading struct {
	Level int
	Text  string
}

// Outline lists the headings of an HTML document in document order.
func Outline(htmlDoc string) ([]Heading, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlDoc))
	if err != nil {
		return nil, &RenderError{Message: "failed to parse HTML", Cause: err}
	}

	var headings []Heading
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		headings = append(headings, Heading{
			Level: int(name[1] - '0'),
			Text:  strings.TrimSpace(s.Text()),
		})
	})

	return headings, nil
}
