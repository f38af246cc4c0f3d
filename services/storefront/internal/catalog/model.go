package catalog

// Category is a product grouping owned by the catalog server
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
}

// Product is a catalog entry. The client never mutates it.
type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Stock       int      `json:"stock"`
	ImageRef    string   `json:"img"`
	Category    Category `json:"categoria"`
}

// ProductRequest is the create-product body
type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
	Img         string `json:"img"`
	CategoryID  int    `json:"categoriaId"`
}
