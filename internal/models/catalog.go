package models

// Category groups products for browsing.
type Category struct {
	BaseModel
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Products    []Product `json:"products,omitempty"`
}

// FlowerType is a species lookup row. Name matches a classifier label
// (daisy, dandelion, rose, sunflower, tulip).
type FlowerType struct {
	BaseModel
	Name        string    `gorm:"uniqueIndex" json:"name"`
	Description string    `json:"description"`
	Products    []Product `json:"products,omitempty"`
}

// Flower is a standalone catalog record with its own uploaded image.
// ImageURL stores the path relative to the media root, e.g. "rose/abc.jpg".
type Flower struct {
	BaseModel
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	FlowerType    string  `gorm:"index" json:"flower_type"`
	ImageURL      string  `json:"image_url"`
}
