package room

import "errors"

var ErrInvalidCategory = errors.New("invalid room category")

// Category is ordered: standard < comfort < deluxe. Listings sort by this rank.
type Category string

const (
	CategoryStandard Category = "standard"
	CategoryComfort  Category = "comfort"
	CategoryDeluxe   Category = "deluxe"
)

var categoryRank = map[Category]int{
	CategoryStandard: 1,
	CategoryComfort:  2,
	CategoryDeluxe:   3,
}

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	_, ok := categoryRank[c]
	return ok
}

func (c Category) Rank() int {
	return categoryRank[c]
}

func NewCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// Categories returns every category in listing order.
func Categories() []Category {
	return []Category{CategoryStandard, CategoryComfort, CategoryDeluxe}
}
