package menu

// Dish is a single entry on a restaurant menu.
type Dish struct {
	Name        string   `json:"name" yaml:"name"`
	Price       float64  `json:"price" yaml:"price"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Restaurant groups the dishes served at one place.
type Restaurant struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Cuisine string `json:"cuisine,omitempty" yaml:"cuisine,omitempty"`
	Dishes  []Dish `json:"dishes" yaml:"dishes"`
}

// Item converts one of the restaurant's dishes into a new Item.
func (r Restaurant) Item(d Dish) Item {
	return Item{
		RestaurantID:   r.ID,
		RestaurantName: r.Name,
		ItemName:       d.Name,
		Price:          d.Price,
		Status:         StatusNew,
	}
}
