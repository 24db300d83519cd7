package models

import "github.com/shopspring/decimal"

// Product is a catalog entry supplied by the caller. The cart never builds one itself.
type Product struct {
	ID             int              `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Category       string           `json:"category"`
	Price          decimal.Decimal  `json:"price"`
	OriginalPrice  *decimal.Decimal `json:"originalPrice,omitempty"`
	Images         []string         `json:"images"`
	ImageFolder    string           `json:"imageFolder"`
	Specifications *Specifications  `json:"specifications,omitempty"`
	Features       []string         `json:"features,omitempty"`
	InStock        bool             `json:"inStock"`
	LimitedEdition bool             `json:"limitedEdition"`
	Year           int              `json:"year"`
	Team           string           `json:"team"`
}

// Specifications are display strings, never parsed.
type Specifications struct {
	Engine       string `json:"engine,omitempty"`
	Power        string `json:"power,omitempty"`
	Weight       string `json:"weight,omitempty"`
	TopSpeed     string `json:"topSpeed,omitempty"`
	Acceleration string `json:"acceleration,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with p.
func (p Product) Clone() Product {
	if p.OriginalPrice != nil {
		price := *p.OriginalPrice
		p.OriginalPrice = &price
	}
	if p.Specifications != nil {
		specs := *p.Specifications
		p.Specifications = &specs
	}
	if p.Images != nil {
		p.Images = append([]string(nil), p.Images...)
	}
	if p.Features != nil {
		p.Features = append([]string(nil), p.Features...)
	}
	return p
}

// CartItem is a product line with a quantity of at least one.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price times quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
