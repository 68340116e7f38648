package domain

import "time"

// Category описывает категорию каталога. Дерево двухуровневое:
// корневые категории и их прямые подкатегории.
type Category struct {
	ID          string
	Name        string
	Description *string
	ImageURL    *string
	ParentID    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategoryCounts — количество подкатегорий и товаров категории.
type CategoryCounts struct {
	Children int
	Products int
}

// CategoryWithCounts — категория вместе с агрегатами для списков.
type CategoryWithCounts struct {
	Category
	Counts CategoryCounts
}

// CategoryRef — краткая ссылка на категорию, прикладывается к товару.
type CategoryRef struct {
	ID   string
	Name string
}

func NewCategory(id, name string, description, imageURL, parentID *string) *Category {
	return &Category{
		ID:          id,
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		ParentID:    parentID,
	}
}

// Deletable проверяет, что у категории нет подкатегорий и товаров.
func (c CategoryCounts) Deletable() bool {
	return c.Children == 0 && c.Products == 0
}
