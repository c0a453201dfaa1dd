// Package idempotency define el almacén de claves Idempotency-Key usado por
// POST /api/sales para que un reintento del cliente no registre la venta dos veces.
package idempotency

import (
	"context"
	"time"
)

// DefaultTTL vigencia de una respuesta guardada si no se configura otra.
const DefaultTTL = 24 * time.Hour

// PendingTTL vigencia de una reserva sin respuesta; si el proceso cae a mitad
// de la petición la clave vuelve a estar libre pasado este plazo.
const PendingTTL = 2 * time.Minute

// Record respuesta guardada para reproducirla ante un reintento.
// Fingerprint identifica el cuerpo de la petición original.
type Record struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// Store reserva claves y guarda la respuesta asociada.
//
// Ciclo: Reserve (true = primera vez) → handler → Save, o Release si el
// handler falló de forma reintentable. Load devuelve nil mientras la clave
// está reservada pero sin respuesta (petición en curso).
type Store interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Save(ctx context.Context, key string, rec Record) error
	Load(ctx context.Context, key string) (*Record, error)
	Release(ctx context.Context, key string) error
}
