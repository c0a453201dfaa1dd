package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Chars502/ferreteria-kairos/internal/application/dto"
	"github.com/Chars502/ferreteria-kairos/internal/domain"
)

// localErr guarda el error original para que AccessLog lo registre.
const localErr = "handler_error"

// writeError traduce un error de dominio a status HTTP + ErrorResponse.
// Los fallos de infraestructura nunca exponen su detalle al cliente.
func writeError(c *fiber.Ctx, err error) error {
	c.Locals(localErr, err)

	var invalid *domain.InvalidInputError
	switch {
	case errors.As(err, &invalid), errors.Is(err, domain.ErrInvalidInput):
		return respondError(c, fiber.StatusBadRequest, dto.ErrKindInvalidInput, err.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		return respondError(c, fiber.StatusNotFound, dto.ErrKindProductNotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return respondError(c, fiber.StatusConflict, dto.ErrKindInsufficientStock, err.Error())
	case errors.Is(err, domain.ErrTransactionFailure):
		return respondError(c, fiber.StatusInternalServerError, dto.ErrKindTransactionFailure,
			"no se pudo completar la transacción, intente nuevamente")
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return respondError(c, fiber.StatusConflict, dto.ErrKindDuplicate, err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return respondError(c, fiber.StatusConflict, dto.ErrKindDuplicate, "el recurso ya existe")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUserNotFound):
		return respondError(c, fiber.StatusUnauthorized, dto.ErrKindUnauthorized, "credenciales inválidas")
	case errors.Is(err, domain.ErrForbidden):
		return respondError(c, fiber.StatusForbidden, dto.ErrKindForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return respondError(c, fiber.StatusNotFound, dto.ErrKindNotFound, err.Error())
	default:
		return respondError(c, fiber.StatusInternalServerError, dto.ErrKindInternal, "error interno")
	}
}

func respondError(c *fiber.Ctx, status int, kind, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{ErrorKind: kind, Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return respondError(c, fiber.StatusBadRequest, dto.ErrKindInvalidBody, "cuerpo inválido")
}

// ErrorHandler convierte los errores que llegan a Fiber (rutas inexistentes,
// método no permitido, panics recuperados) al mismo formato de error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	c.Locals(localErr, err)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		kind := dto.ErrKindInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			kind = dto.ErrKindNotFound
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusUnprocessableEntity:
			kind = dto.ErrKindInvalidBody
		case fiber.StatusMethodNotAllowed:
			kind = dto.ErrKindNotFound
		}
		return respondError(c, fe.Code, kind, fe.Message)
	}
	return respondError(c, fiber.StatusInternalServerError, dto.ErrKindInternal, "error interno")
}
