// Package stream encodes a sequence of records into a chunked JSON array for
// middleware.StreamResponse. Records are pulled from a fetcher goroutine,
// transformed one by one and flushed whenever the pooled buffer passes the
// chunk threshold.
//
//	streamer := stream.NewDefaultStreamer[common.Customer]()
//	resp := streamer.Stream(ctx, stream.SQLFetcher(rows, scan), toSummary)
package stream

import (
	"context"

	"repairshop/middleware"
)

// DataFetcher produces items on the first channel and at most one error on
// the second. It must close both when done and stop on ctx cancellation.
type DataFetcher[T any] func(ctx context.Context) (<-chan T, <-chan error)

// Transformer maps one item to its JSON-encodable output.
type Transformer[T any] func(item T) (any, error)

// Streamer encodes fetched items into a StreamResponse
type Streamer[T any] interface {
	Stream(ctx context.Context, fetcher DataFetcher[T], transformer Transformer[T]) middleware.StreamResponse
	GetConfig() ChunkConfig
}

// ChunkConfig tunes chunking and buffering
type ChunkConfig struct {
	// ChunkThreshold is the buffered size in bytes that triggers a flush.
	ChunkThreshold int
	// BufferSize is the initial capacity of pooled buffers.
	BufferSize int
	// ChannelBuffer is the capacity of the chunk channel.
	ChannelBuffer int
}

func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkThreshold: 32 * 1024,
		BufferSize:     50 * 1024,
		ChannelBuffer:  4,
	}
}

// withDefaults fills zero or negative fields from DefaultChunkConfig.
func (c ChunkConfig) withDefaults() ChunkConfig {
	def := DefaultChunkConfig()
	if c.ChunkThreshold <= 0 {
		c.ChunkThreshold = def.ChunkThreshold
	}
	if c.BufferSize <= 0 {
		c.BufferSize = def.BufferSize
	}
	if c.ChannelBuffer <= 0 {
		c.ChannelBuffer = def.ChannelBuffer
	}
	return c
}

// BufferPool hands out reusable byte buffers. Get returns a zero-length
// buffer; a buffer must not be touched after Put.
type BufferPool interface {
	Get() *[]byte
	Put(buf *[]byte)
	GetInitialSize() int
}
