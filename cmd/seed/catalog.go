package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Propiedades-api/internal/application/dto"
)

// Columnas reconocidas del CSV de catálogo. number, name, measurement, quantity y property_type son obligatorias.
var catalogColumns = []string{
	"number", "name", "model_number", "serial_number", "date",
	"company_name", "measurement", "quantity", "unit_price", "property_type",
}

// parseCatalog lee el CSV exportado de la hoja de inventario. Las planillas viejas vienen
// en ISO-8859-1: si el contenido no es UTF-8 válido se decodifica como Latin-1.
func parseCatalog(r io.Reader) ([]dto.CreatePropertyRequest, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range []string{"number", "name", "measurement", "quantity", "property_type"} {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q", c)
		}
	}

	var out []dto.CreatePropertyRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		qty, err := strconv.Atoi(get("quantity"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: quantity %q", line, get("quantity"))
		}
		price := decimal.Zero
		if s := get("unit_price"); s != "" {
			if price, err = decimal.NewFromString(s); err != nil {
				return nil, fmt.Errorf("línea %d: unit_price %q", line, s)
			}
		}
		out = append(out, dto.CreatePropertyRequest{
			Number:       get("number"),
			Name:         get("name"),
			ModelNumber:  get("model_number"),
			SerialNumber: get("serial_number"),
			Date:         get("date"),
			CompanyName:  get("company_name"),
			Measurement:  get("measurement"),
			Quantity:     qty,
			UnitPrice:    price,
			PropertyType: strings.ToLower(get("property_type")),
		})
	}
	return out, nil
}
