package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")

	// 400 Bad Request
	ErrStatusBadRequest       = fmt.Errorf("bad request")
	ErrProductNameRequired    = fmt.Errorf("product name is required")
	ErrPriceMustBePositive    = fmt.Errorf("price must be positive")
	ErrStockMustBeNonNegative = fmt.Errorf("stock quantity must be non-negative")
	ErrInvalidPrice           = fmt.Errorf("invalid price")
	ErrPricePrecision         = fmt.Errorf("price must have at most 2 decimal places")
	ErrEmptyOrderItems        = fmt.Errorf("order should contain at least one item")
	ErrQuantityNotPositive    = fmt.Errorf("item quantity must be positive")
	ErrInvalidOrderStatus     = fmt.Errorf("invalid order status")
	ErrInvalidPagination      = fmt.Errorf("skip and limit must be non-negative integers")
	ErrInsufficientStock      = fmt.Errorf("there are not enough items in stock")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")
	ErrOrderNotFound   = fmt.Errorf("order not found")

	// 409 Conflict
	ErrProductNameTaken  = fmt.Errorf("product with given name already exists")
	ErrProductReferenced = fmt.Errorf("product is referenced by existing order items")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
