package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

//go:embed menu.json
var defaultMenu []byte

// Catalog is the read-only list of purchasable menu items and categories.
// It is loaded once per process; lookups never mutate it.
type Catalog struct {
	doc   Document
	byID  map[string]Item
	names map[string]string // category id -> display name
}

// Load reads the menu document from path. An empty path loads the embedded
// default menu.
func Load(path string) (*Catalog, error) {
	data := defaultMenu
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read menu file: %w", err)
		}
		data = b
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode menu document: %w", err)
	}
	if len(doc.Items) == 0 {
		return nil, fmt.Errorf("menu document has no items")
	}

	c := &Catalog{
		doc:   doc,
		byID:  make(map[string]Item, len(doc.Items)),
		names: make(map[string]string, len(doc.Categories)),
	}
	for _, it := range doc.Items {
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("duplicate menu item id %q", it.ID)
		}
		c.byID[it.ID] = it
	}
	for _, cat := range doc.Categories {
		c.names[cat.ID] = cat.Name
	}

	return c, nil
}

func (c *Catalog) Categories() []Category {
	return c.doc.Categories
}

func (c *Catalog) Items() []Item {
	return c.doc.Items
}

func (c *Catalog) ItemByID(id string) (Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// Filter returns items matching a category id and a case-insensitive search
// query over name and description. "all" or an empty category matches every
// category; an empty query matches every item.
func (c *Catalog) Filter(category, query string) []Item {
	query = strings.ToLower(strings.TrimSpace(query))

	var out []Item
	for _, it := range c.doc.Items {
		if category != "" && category != "all" && it.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(it.Name), query) &&
			!strings.Contains(strings.ToLower(it.Description), query) {
			continue
		}
		out = append(out, it)
	}
	return out
}
