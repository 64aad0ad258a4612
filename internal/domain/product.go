package domain

import "time"

// Product описывает товар на складе
type Product struct {
	ID            int64
	Name          string
	Description   string
	Price         int64 // Цена хранится в копейках
	StockQuantity int64
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

func NewProduct(name, description string, price, stockQuantity int64) *Product {
	return &Product{
		Name:          name,
		Description:   description,
		Price:         price,
		StockQuantity: stockQuantity,
	}
}
