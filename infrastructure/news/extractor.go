package news

import (
	"context"
	"strings"

	"github.com/jdkato/prose/v2"

	"relationmap/application/ports"
)

// ProseExtractor recognises named entities with prose's averaged perceptron
// tagger
type ProseExtractor struct{}

var _ ports.EntityExtractor = ProseExtractor{}

// NewProseExtractor creates an entity extractor
func NewProseExtractor() ProseExtractor {
	return ProseExtractor{}
}

// Extract returns the people, places and organizations mentioned in text
func (ProseExtractor) Extract(ctx context.Context, text string) (ports.Entities, error) {
	out := ports.Entities{People: []string{}, Places: []string{}, Organizations: []string{}}
	if strings.TrimSpace(text) == "" {
		return out, nil
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}

	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
	)
	if err != nil {
		return out, err
	}

	return classify(doc.Entities()), nil
}

// classify sorts recognised entities by label, keeping first-seen order
func classify(ents []prose.Entity) ports.Entities {
	out := ports.Entities{People: []string{}, Places: []string{}, Organizations: []string{}}
	for _, ent := range ents {
		name := strings.TrimSpace(ent.Text)
		if name == "" {
			continue
		}
		switch ent.Label {
		case "PERSON":
			out.People = appendUnique(out.People, name)
		case "GPE", "LOC":
			out.Places = appendUnique(out.Places, name)
		case "ORG":
			out.Organizations = appendUnique(out.Organizations, name)
		}
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
