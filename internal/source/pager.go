package source

import "context"

// collect requests pages until one comes back short or empty, or maxRows is reached.
// A page longer than requested means the server ignores paging; it is taken as the
// whole result. The boolean reports whether the cap cut the result.
func collect[T any](ctx context.Context, pageSize, maxRows int, fetch func(ctx context.Context, offset, limit int) ([]T, error)) ([]T, bool, error) {
	if pageSize < 1 {
		pageSize = 1
	}

	var rows []T
	offset := 0
	for offset < maxRows {
		limit := pageSize
		if rem := maxRows - offset; rem < limit {
			limit = rem
		}

		page, err := fetch(ctx, offset, limit)
		if err != nil {
			return nil, false, err
		}

		if len(page) > limit {
			rows = append(rows, page...)
			if len(rows) > maxRows {
				return rows[:maxRows], true, nil
			}
			return rows, false, nil
		}

		rows = append(rows, page...)
		if len(page) < limit {
			return rows, false, nil
		}
		offset += len(page)
	}
	return rows, true, nil
}
