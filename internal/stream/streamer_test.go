package stream

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	json "github.com/json-iterator/go"

	"repairshop/middleware"
)

type row struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func collect(t *testing.T, resp middleware.StreamResponse) ([]byte, error) {
	t.Helper()
	var out bytes.Buffer
	var streamErr error
	for chunk := range resp.ChunkChan {
		if chunk.Error != nil {
			streamErr = chunk.Error
			continue
		}
		if chunk.JSONBuf != nil {
			out.Write(*chunk.JSONBuf)
		}
	}
	return out.Bytes(), streamErr
}

func TestStreamer_Stream(t *testing.T) {
	t.Run("encodes a JSON array", func(t *testing.T) {
		items := []row{{1, "Alice"}, {2, "Bob"}, {3, "Charlie"}}
		s := NewDefaultStreamer[row]()

		resp := s.Stream(context.Background(), SliceFetcher(items), PassThroughTransformer[row]())
		if resp.Code != 200 {
			t.Errorf("Expected status code 200, got %d", resp.Code)
		}

		body, err := collect(t, resp)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		var decoded []row
		if err := json.Unmarshal(body, &decoded); err != nil {
			t.Fatalf("Expected valid JSON, got %s: %v", body, err)
		}
		if len(decoded) != 3 || decoded[2].Name != "Charlie" {
			t.Errorf("Expected 3 rows ending with Charlie, got %v", decoded)
		}
	})

	t.Run("empty input yields an empty array", func(t *testing.T) {
		s := NewDefaultStreamer[row]()
		body, err := collect(t, s.Stream(context.Background(), SliceFetcher[row](nil), PassThroughTransformer[row]()))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if string(body) != "[]" {
			t.Errorf("Expected [], got %s", body)
		}
	})

	t.Run("small threshold splits into several chunks", func(t *testing.T) {
		items := make([]row, 50)
		for i := range items {
			items[i] = row{ID: i, Name: "customer"}
		}
		s := NewStreamer[row](ChunkConfig{ChunkThreshold: 64})

		resp := s.Stream(context.Background(), SliceFetcher(items), PassThroughTransformer[row]())
		chunks := 0
		var out bytes.Buffer
		for chunk := range resp.ChunkChan {
			if chunk.JSONBuf != nil {
				chunks++
				out.Write(*chunk.JSONBuf)
			}
		}
		if chunks < 2 {
			t.Errorf("Expected several chunks, got %d", chunks)
		}

		var decoded []row
		if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
			t.Fatalf("Expected valid JSON, got %v", err)
		}
		if len(decoded) != 50 {
			t.Errorf("Expected 50 rows, got %d", len(decoded))
		}
	})

	t.Run("transformer error stops the stream", func(t *testing.T) {
		s := NewDefaultStreamer[row]()
		boom := errors.New("bad row")
		transform := func(r row) (any, error) {
			if r.ID == 2 {
				return nil, boom
			}
			return r, nil
		}

		_, err := collect(t, s.Stream(context.Background(), SliceFetcher([]row{{1, "a"}, {2, "b"}}), transform))
		if !errors.Is(err, boom) {
			t.Errorf("Expected %v, got %v", boom, err)
		}
	})

	t.Run("cancelled context closes the channel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		items := make([]row, 1000)
		s := NewDefaultStreamer[row]()
		resp := s.Stream(ctx, SliceFetcher(items), PassThroughTransformer[row]())
		for range resp.ChunkChan {
		}
	})
}

func TestSQLFetcher(t *testing.T) {
	scan := func(rows *sql.Rows) (row, error) {
		var r row
		err := rows.Scan(&r.ID, &r.Name)
		return r, err
	}

	t.Run("streams rows and closes them", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("Failed to create mock: %v", err)
		}
		defer db.Close()

		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "Alice").
			AddRow(2, "Bob"))

		rows, err := db.Query("SELECT id, name FROM customers")
		if err != nil {
			t.Fatalf("Failed to create rows: %v", err)
		}

		s := NewDefaultStreamer[row]()
		body, err := collect(t, s.Stream(context.Background(), SQLFetcher(rows, scan), PassThroughTransformer[row]()))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		var decoded []row
		if err := json.Unmarshal(body, &decoded); err != nil {
			t.Fatalf("Expected valid JSON, got %v", err)
		}
		if len(decoded) != 2 || decoded[0].Name != "Alice" {
			t.Errorf("Expected Alice and Bob, got %v", decoded)
		}
	})

	t.Run("row error surfaces as a stream error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("Failed to create mock: %v", err)
		}
		defer db.Close()

		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "Alice").
			RowError(0, errors.New("connection reset")))

		rows, err := db.Query("SELECT id, name FROM customers")
		if err != nil {
			t.Fatalf("Failed to create rows: %v", err)
		}

		s := NewDefaultStreamer[row]()
		_, err = collect(t, s.Stream(context.Background(), SQLFetcher(rows, scan), PassThroughTransformer[row]()))
		if err == nil {
			t.Error("Expected stream error for failing row")
		}
	})
}

func TestBufferPool(t *testing.T) {
	p := NewBufferPool(0)
	if p.GetInitialSize() != DefaultChunkConfig().BufferSize {
		t.Errorf("Expected default size, got %d", p.GetInitialSize())
	}

	buf := p.Get()
	*buf = append(*buf, "data"...)
	p.Put(buf)
	p.Put(nil)

	again := p.Get()
	if len(*again) != 0 {
		t.Errorf("Expected zero-length buffer, got %d", len(*again))
	}
}

type countingPool struct {
	BufferPool
	gets, puts atomic.Int64
}

func (p *countingPool) Get() *[]byte {
	p.gets.Add(1)
	return p.BufferPool.Get()
}

func (p *countingPool) Put(buf *[]byte) {
	if buf != nil {
		p.puts.Add(1)
	}
	p.BufferPool.Put(buf)
}

func TestStreamer_ReleaseReturnsBuffers(t *testing.T) {
	items := make([]int, 2000)
	for i := range items {
		items[i] = i
	}

	pool := &countingPool{BufferPool: NewBufferPool(128)}
	s := &streamer[int]{
		config:     ChunkConfig{ChunkThreshold: 64}.withDefaults(),
		bufferPool: pool,
	}

	for run := 0; run < 2; run++ {
		resp := s.Stream(context.Background(), SliceFetcher(items), PassThroughTransformer[int]())
		if resp.Release == nil {
			t.Fatal("Expected Release to be set")
		}

		chunks := 0
		for chunk := range resp.ChunkChan {
			if chunk.Error != nil {
				t.Fatalf("Unexpected error: %v", chunk.Error)
			}
			chunks++
			resp.Release(chunk.JSONBuf)
		}
		if chunks < 2 {
			t.Fatalf("Expected several chunks, got %d", chunks)
		}
	}

	if pool.gets.Load() != pool.puts.Load() {
		t.Errorf("Expected every buffer back in the pool, got %d gets and %d puts", pool.gets.Load(), pool.puts.Load())
	}
}
