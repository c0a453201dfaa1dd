package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/Chars502/ferreteria-kairos/internal/application/catalog"
	"github.com/Chars502/ferreteria-kairos/internal/application/dto"
)

// productRow fila del CSV ya convertida; Line es 1-based para los mensajes.
type productRow struct {
	Line int
	Req  dto.UpsertProductRequest
}

type rowError struct {
	Line int
	Err  error
}

type seedResult struct {
	Created   int
	Restocked int
	Errors    []rowError
}

// parseCSV decodifica raw (UTF-8 o, si no es UTF-8 válido, ISO-8859-1) y convierte cada fila.
// Filas vacías se ignoran; la cabecera se detecta por la primera columna "name".
func parseCSV(raw []byte, sep string) ([]productRow, error) {
	var r io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	if sep == "" {
		sep = ","
	}
	sepRune, _ := utf8.DecodeRuneInString(sep)

	cr := csv.NewReader(r)
	cr.Comma = sepRune
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []productRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(rec[0], "\ufeff")), "name") {
			continue
		}
		if len(rec) != 6 {
			return nil, fmt.Errorf("línea %d: se esperaban 6 columnas, hay %d", line, len(rec))
		}
		req, err := toUpsertRequest(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		rows = append(rows, productRow{Line: line, Req: req})
	}
	return rows, nil
}

func toUpsertRequest(rec []string) (dto.UpsertProductRequest, error) {
	nums := make([]decimal.Decimal, 3)
	for i, col := range []int{3, 4, 5} {
		// Admite coma decimal ("12,50").
		v := strings.ReplaceAll(strings.TrimSpace(rec[col]), ",", ".")
		d, err := decimal.NewFromString(v)
		if err != nil {
			return dto.UpsertProductRequest{}, fmt.Errorf("columna %d: número inválido %q", col+1, rec[col])
		}
		nums[i] = d
	}
	return dto.UpsertProductRequest{
		Name:          rec[0],
		Brand:         rec[1],
		Unit:          rec[2],
		Quantity:      nums[0],
		PurchasePrice: nums[1],
		SalePrice:     nums[2],
	}, nil
}

// seedProducts aplica cada fila en su propia transacción; una fila inválida no detiene la carga.
func seedProducts(ctx context.Context, uc *catalog.UpsertProductUseCase, rows []productRow) seedResult {
	var res seedResult
	for _, row := range rows {
		_, created, err := uc.Upsert(ctx, row.Req)
		switch {
		case err != nil:
			res.Errors = append(res.Errors, rowError{Line: row.Line, Err: err})
		case created:
			res.Created++
		default:
			res.Restocked++
		}
	}
	return res
}
