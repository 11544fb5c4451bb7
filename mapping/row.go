package mapping

// Row maps column titles to extracted values.
type Row map[string]string

// Values returns the row values ordered by titles; missing columns yield "".
func (r Row) Values(titles []string) []string {
	out := make([]string, len(titles))
	for i, title := range titles {
		out[i] = r[title]
	}
	return out
}

// Clone returns a shallow copy.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
