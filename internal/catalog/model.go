package catalog

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Category    string   `json:"category"`
	Veg         bool     `json:"veg"`
	Images      []string `json:"images"`
}

// Thumbnail returns the first image, used as the cart line thumbnail.
func (i Item) Thumbnail() string {
	if len(i.Images) == 0 {
		return ""
	}
	return i.Images[0]
}

// Document is the on-disk menu format.
type Document struct {
	Categories []Category `json:"categories"`
	Items      []Item     `json:"items"`
}
