package stream

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLRowScanner scans the current row into a T.
type SQLRowScanner[T any] func(rows *sql.Rows) (T, error)

// SQLFetcher streams rows through scanner. Rows are closed when the fetcher
// finishes, including on cancellation.
func SQLFetcher[T any](rows *sql.Rows, scanner SQLRowScanner[T]) DataFetcher[T] {
	return func(ctx context.Context) (<-chan T, <-chan error) {
		dataChan := make(chan T, 10)
		errChan := make(chan error, 1)

		go func() {
			defer close(errChan)
			defer close(dataChan)
			defer rows.Close()

			for rows.Next() {
				item, err := scanner(rows)
				if err != nil {
					errChan <- fmt.Errorf("failed to scan row: %w", err)
					return
				}

				select {
				case dataChan <- item:
				case <-ctx.Done():
					return
				}
			}

			if err := rows.Err(); err != nil {
				errChan <- fmt.Errorf("error iterating rows: %w", err)
			}
		}()

		return dataChan, errChan
	}
}

// SliceFetcher streams an in-memory slice.
func SliceFetcher[T any](items []T) DataFetcher[T] {
	return func(ctx context.Context) (<-chan T, <-chan error) {
		dataChan := make(chan T, 10)
		errChan := make(chan error, 1)

		go func() {
			defer close(errChan)
			defer close(dataChan)

			for _, item := range items {
				select {
				case dataChan <- item:
				case <-ctx.Done():
					return
				}
			}
		}()

		return dataChan, errChan
	}
}

func PassThroughTransformer[T any]() Transformer[T] {
	return func(item T) (any, error) {
		return item, nil
	}
}
