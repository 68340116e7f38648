package e

import "fmt"

var (
	// Внутренние ошибки
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrInternalServerError  = fmt.Errorf("internal server error")

	// 400 Bad Request
	ErrStatusBadRequest      = fmt.Errorf("bad request")
	ErrInvalidJSON           = fmt.Errorf("invalid JSON body")
	ErrNameRequired          = fmt.Errorf("name is required")
	ErrIDRequired            = fmt.Errorf("id is required")
	ErrCategoryRequired      = fmt.Errorf("category is required")
	ErrParentNotFound        = fmt.Errorf("parent category not found")
	ErrSelfParent            = fmt.Errorf("a category cannot be its own parent")
	ErrInvalidPrice          = fmt.Errorf("invalid price")
	ErrPricePrecision        = fmt.Errorf("price must have at most 2 decimal places")
	ErrCredentialsRequired   = fmt.Errorf("email and password are required")
	ErrExpectedMultipart     = fmt.Errorf("expected multipart/form-data")
	ErrFileRequired          = fmt.Errorf("file is required")
	ErrFileTooLarge          = fmt.Errorf("file size exceeds 5MB")
	ErrUnsupportedMediaType  = fmt.Errorf("unsupported media type")
	ErrEmptyOrder            = fmt.Errorf("order has no items")
	ErrInvalidQuantity       = fmt.Errorf("quantity must be positive")
	ErrQuantityTooLarge      = fmt.Errorf("quantity exceeds the per-line limit")
	ErrVariantNotOffered     = fmt.Errorf("print variant is not offered for product")
	ErrInvalidPrintType      = fmt.Errorf("print must be color or bw")
	ErrOrderProductNotFound  = fmt.Errorf("ordered product not found")
	ErrUnknownCategory       = fmt.Errorf("category does not exist")

	// 401 Unauthorized
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrInvalidCredentials = fmt.Errorf("invalid login credentials")
	ErrSessionNotCreated  = fmt.Errorf("session not created")

	// 404 Not Found
	ErrCategoryNotFound = fmt.Errorf("category not found")
	ErrProductNotFound  = fmt.Errorf("product not found")

	// 409 Conflict
	ErrCategoryHasChildren = fmt.Errorf("cannot delete a category that has sub-categories, delete them first")
	ErrCategoryHasProducts = fmt.Errorf("cannot delete a category that still has products, remove or move them first")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
