// Package content holds the static catalog behind the checklist, the step
// detail pages and the learning articles.
package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"startwise/internal/core"
)

//go:embed catalog.yaml
var catalogYAML []byte

type (
	Section struct {
		Heading string `yaml:"heading"`
		Body    string `yaml:"body"`
	}

	Article struct {
		Slug     string    `yaml:"slug"`
		Title    string    `yaml:"title"`
		Summary  string    `yaml:"summary"`
		Sections []Section `yaml:"sections"`
	}

	HowToStep struct {
		Text string `yaml:"text"`
		Link string `yaml:"link"`
	}

	// Step is the detail page of a checklist item.
	Step struct {
		Slug     string `yaml:"slug"`
		Title    string `yaml:"title"`
		Subtitle string `yaml:"subtitle"`
		WhatIs   struct {
			Heading     string `yaml:"heading"`
			Description string `yaml:"description"`
		} `yaml:"what_is"`
		WhyItMatters struct {
			Heading string   `yaml:"heading"`
			Points  []string `yaml:"points"`
		} `yaml:"why_it_matters"`
		HowTo struct {
			Heading string      `yaml:"heading"`
			Steps   []HowToStep `yaml:"steps"`
		} `yaml:"how_to"`
		Insight    string `yaml:"insight"`
		PortalLink string `yaml:"portal_link"`
		PortalText string `yaml:"portal_text"`
	}

	// Catalog is the parsed content, read-only after load.
	Catalog struct {
		items    []core.ChecklistItem
		steps    map[string]Step
		articles []Article
		quotes   []string
	}
)

type catalogFile struct {
	Items    []core.ChecklistItem `yaml:"items"`
	Steps    []Step               `yaml:"steps"`
	Articles []Article            `yaml:"articles"`
	Quotes   []string             `yaml:"quotes"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse builds a catalog from YAML, rejecting duplicate ids and slugs.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		items:    f.Items,
		steps:    make(map[string]Step, len(f.Steps)),
		articles: f.Articles,
		quotes:   f.Quotes,
	}
	ids := make(map[string]struct{}, len(f.Items))
	for _, it := range f.Items {
		if it.ID == "" || it.Slug == "" {
			return nil, fmt.Errorf("checklist item %q: id and slug are required", it.Title)
		}
		if _, dup := ids[it.ID]; dup {
			return nil, fmt.Errorf("duplicate checklist id %q", it.ID)
		}
		ids[it.ID] = struct{}{}
	}
	for _, s := range f.Steps {
		if _, dup := c.steps[s.Slug]; dup {
			return nil, fmt.Errorf("duplicate step slug %q", s.Slug)
		}
		c.steps[s.Slug] = s
	}
	return c, nil
}

// MustLoad is Load for program start-up.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Items returns the checklist in display order.
func (c *Catalog) Items() []core.ChecklistItem {
	return append([]core.ChecklistItem(nil), c.items...)
}

// Item finds a checklist item by id.
func (c *Catalog) Item(id string) (core.ChecklistItem, bool) {
	for _, it := range c.items {
		if it.ID == id {
			return it, true
		}
	}
	return core.ChecklistItem{}, false
}

// Step returns the detail content for slug. Unknown slugs report false.
func (c *Catalog) Step(slug string) (Step, bool) {
	s, ok := c.steps[slug]
	return s, ok
}

func (c *Catalog) Articles() []Article {
	return append([]Article(nil), c.articles...)
}

func (c *Catalog) Article(slug string) (Article, bool) {
	for _, a := range c.articles {
		if a.Slug == slug {
			return a, true
		}
	}
	return Article{}, false
}

// Quote picks the founder quote for a rotation slot.
func (c *Catalog) Quote(slot int64) string {
	if len(c.quotes) == 0 {
		return ""
	}
	i := slot % int64(len(c.quotes))
	if i < 0 {
		i += int64(len(c.quotes))
	}
	return c.quotes[i]
}
