package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Chars502/ferreteria-kairos/internal/application/dto"
	"github.com/Chars502/ferreteria-kairos/internal/application/idempotency"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 200
)

// IdempotencyMiddleware hace que reintentos con el mismo Idempotency-Key (por usuario)
// reciban la respuesta original sin volver a ejecutar el handler.
//
// Comportamiento:
//   - Sin header → pasa directo.
//   - Primera vez → ejecuta el handler y guarda la respuesta si status < 500;
//     con status >= 500 libera la clave para permitir el reintento.
//   - Repetida con respuesta guardada → la reproduce con Idempotent-Replayed: true.
//   - Repetida mientras la primera sigue en curso → 409 DUPLICATE_REQUEST.
//   - Repetida con otro cuerpo → 422 IDEMPOTENCY_KEY_REUSED.
//   - Si el handler falla o entra en panic la clave se libera.
//
// Debe usarse DESPUÉS de AuthMiddleware. Store nil deshabilita el middleware.
func IdempotencyMiddleware(store idempotency.Store, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if store == nil || key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLen {
			return respondError(c, fiber.StatusBadRequest, dto.ErrKindInvalidInput, "Idempotency-Key demasiado largo")
		}
		scoped := GetUserID(c) + ":" + key
		ctx := c.UserContext()

		first, err := store.Reserve(ctx, scoped)
		if err != nil {
			log.Error().Err(err).Msg("idempotencia: reservar clave")
			return respondError(c, fiber.StatusServiceUnavailable, dto.ErrKindInternal, "no se pudo verificar Idempotency-Key, intente más tarde")
		}
		fingerprint := bodyFingerprint(c.Body())
		if !first {
			rec, err := store.Load(ctx, scoped)
			if err != nil {
				log.Error().Err(err).Msg("idempotencia: leer respuesta")
				return respondError(c, fiber.StatusServiceUnavailable, dto.ErrKindInternal, "no se pudo verificar Idempotency-Key, intente más tarde")
			}
			if rec == nil {
				return respondError(c, fiber.StatusConflict, dto.ErrKindDuplicateRequest, "petición con el mismo Idempotency-Key en curso")
			}
			if rec.Fingerprint != "" && rec.Fingerprint != fingerprint {
				return respondError(c, fiber.StatusUnprocessableEntity, dto.ErrKindKeyReused, "Idempotency-Key ya usado con otro cuerpo de petición")
			}
			c.Set(HeaderReplayed, "true")
			if rec.ContentType != "" {
				c.Set(fiber.HeaderContentType, rec.ContentType)
			}
			return c.Status(rec.Status).Send(rec.Body)
		}

		// La respuesta debe persistirse aunque el cliente se haya ido.
		bg := context.WithoutCancel(ctx)
		// Sin respuesta guardada (error, 5xx o panic del handler) la clave se libera.
		saved := false
		defer func() {
			if !saved {
				if err := store.Release(bg, scoped); err != nil {
					log.Error().Err(err).Str("key", key).Msg("idempotencia: liberar clave")
				}
			}
		}()

		if err := c.Next(); err != nil {
			return err
		}
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			return nil
		}
		rec := idempotency.Record{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
			Fingerprint: fingerprint,
		}
		if err := store.Save(bg, scoped, rec); err != nil {
			log.Error().Err(err).Str("key", key).Msg("idempotencia: guardar respuesta")
			return nil
		}
		saved = true
		return nil
	}
}

// bodyFingerprint resume el cuerpo de la petición para detectar claves reutilizadas.
func bodyFingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
