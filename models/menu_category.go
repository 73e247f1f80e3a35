package models

// Category is the fixed set of menu sections.
type Category string

const (
	CategoryAppetizer  Category = "Appetizer"
	CategoryMainCourse Category = "Main Course"
	CategoryDessert    Category = "Dessert"
	CategoryBeverage   Category = "Beverage"
)

func Categories() []Category {
	return []Category{CategoryAppetizer, CategoryMainCourse, CategoryDessert, CategoryBeverage}
}

func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}
