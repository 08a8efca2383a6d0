package models

// ProductImage is one image slot of a product as exposed to storefront clients.
type ProductImage struct {
	Slot     string  `json:"slot"`
	FileName *string `json:"file_name"`
	URL      *string `json:"url,omitempty"`
}

// ProductImages groups the slots of a single product.
type ProductImages struct {
	CodPro string         `json:"codpro"`
	Images []ProductImage `json:"images"`
}

// ImageReference ties a stored file name back to the slot that references it.
type ImageReference struct {
	CodPro   string
	Slot     string
	FileName string
}
