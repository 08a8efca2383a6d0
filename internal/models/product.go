package models

// ImageSlots lists the produto columns that hold product image file names.
var ImageSlots = []string{"photo1", "photo2", "photo3", "photo4"}

// IsImageSlot reports whether name is a recognized image slot column.
func IsImageSlot(name string) bool {
	for _, s := range ImageSlots {
		if s == name {
			return true
		}
	}
	return false
}

type Product struct {
	CodPro string  `json:"codpro" db:"codpro"`
	Name   string  `json:"produto" db:"produto"`
	Price  float64 `json:"preco1" db:"preco1"`
}
