package dto

// Tipos de error expuestos en el cuerpo de las respuestas fallidas.
const (
	ErrKindInvalidInput       = "INVALID_INPUT"
	ErrKindProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrKindInsufficientStock  = "INSUFFICIENT_STOCK"
	ErrKindTransactionFailure = "TRANSACTION_FAILURE"
	ErrKindInvalidBody        = "INVALID_BODY"
	ErrKindUnauthorized       = "UNAUTHORIZED"
	ErrKindMissingToken       = "MISSING_TOKEN"
	ErrKindMissingRole        = "MISSING_ROLE"
	ErrKindInvalidToken       = "INVALID_TOKEN"
	ErrKindForbidden          = "FORBIDDEN"
	ErrKindDuplicate          = "DUPLICATE"
	ErrKindDuplicateRequest   = "DUPLICATE_REQUEST"
	ErrKindKeyReused          = "IDEMPOTENCY_KEY_REUSED"
	ErrKindNotFound           = "NOT_FOUND"
	ErrKindInternal           = "INTERNAL"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
}
