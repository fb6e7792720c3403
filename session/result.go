package session

import "reflect"

// extractResult shapes fetched rows for a property of type target. Slice
// targets receive every row; anything else receives nil for no rows, the
// row itself for one, and an error for more.
func extractResult(rows []any, target reflect.Type) (any, error) {
	if target != nil && target.Kind() == reflect.Slice {
		out := reflect.MakeSlice(target, 0, len(rows))
		for _, row := range rows {
			v, err := valueFor(row, target.Elem())
			if err != nil {
				return nil, err
			}
			out = reflect.Append(out, v)
		}
		return out.Interface(), nil
	}

	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return rows[0], nil
	default:
		return nil, errTooManyResults(len(rows))
	}
}
