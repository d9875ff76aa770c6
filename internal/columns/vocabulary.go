package columns

import "strings"

// Vocabulary lists, per field, the lower-case keywords that identify its header.
type Vocabulary map[Field][]string

var DefaultVocabulary = Vocabulary{
	Date:        {"date", "fecha", "fecha_transaccion"},
	Description: {"description", "desc", "descripcion", "concepto", "detalle"},
	Amount:      {"amount", "monto", "valor", "importe", "total"},
	Category:    {"category", "categoria", "tipo", "clasificacion"},
}

// Match binds fields to header cells by keyword only. For each field the first unbound
// header containing one of its keywords wins, so a header never serves two fields.
func (v Vocabulary) Match(header []string) Resolution {
	var res Resolution

	taken := make([]bool, len(header))
	cells := make([]string, len(header))

	for i, h := range header {
		cells[i] = strings.ToLower(strings.TrimSpace(h))
	}

	for _, f := range fieldOrder {
		keywords := v[f]

		for i, cell := range cells {
			if taken[i] || cell == "" || !containsAny(cell, keywords) {
				continue
			}

			taken[i] = true
			res.bind(f, i, header[i])

			break
		}
	}

	return res
}

// Resolve is Match plus positional defaults: date is the first column, description
// the second (or the only one) and amount the last.
func (v Vocabulary) Resolve(header []string) Resolution {
	res := v.Match(header)
	if len(header) == 0 {
		return res
	}

	fallbacks := []struct {
		field Field
		index int
	}{
		{Date, 0},
		{Description, min(1, len(header)-1)},
		{Amount, len(header) - 1},
	}

	for _, fb := range fallbacks {
		if res.Has(fb.field) {
			continue
		}

		res.bind(fb.field, fb.index, header[fb.index])
		res.Positional = append(res.Positional, fb.field)
	}

	return res
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}

	return false
}
