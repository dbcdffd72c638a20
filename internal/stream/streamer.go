package stream

import (
	"context"
	"fmt"
	"net/http"

	json "github.com/json-iterator/go"

	"repairshop/middleware"
)

type streamer[T any] struct {
	config     ChunkConfig
	bufferPool BufferPool
}

// NewStreamer creates a new Streamer with its own buffer pool
func NewStreamer[T any](config ChunkConfig) Streamer[T] {
	config = config.withDefaults()
	return &streamer[T]{
		config:     config,
		bufferPool: NewBufferPool(config.BufferSize),
	}
}

// NewDefaultStreamer creates a new Streamer with DefaultChunkConfig
func NewDefaultStreamer[T any]() Streamer[T] {
	return NewStreamer[T](DefaultChunkConfig())
}

func (s *streamer[T]) GetConfig() ChunkConfig {
	return s.config
}

// Stream starts encoding in a goroutine and returns immediately. The chunk
// channel is closed when the array is complete, on the first error, or when
// ctx is cancelled. The first chunk starts with '[' and the last ends with ']'.
// Emitted buffers belong to the consumer until it hands them to Release.
func (s *streamer[T]) Stream(ctx context.Context, fetcher DataFetcher[T], transformer Transformer[T]) middleware.StreamResponse {
	chunkChan := make(chan middleware.StreamChunk, s.config.ChannelBuffer)

	go func() {
		defer close(chunkChan)

		jsonBuf := s.bufferPool.Get()
		// jsonBuf is nil or still owned here on every exit path.
		defer func() {
			s.bufferPool.Put(jsonBuf)
		}()

		emit := func(chunk middleware.StreamChunk) bool {
			select {
			case chunkChan <- chunk:
				return true
			case <-ctx.Done():
				return false
			}
		}

		*jsonBuf = append(*jsonBuf, '[')
		dataChan, errChan := fetcher(ctx)
		firstItem := true

		for {
			select {
			case <-ctx.Done():
				return

			case err, ok := <-errChan:
				if !ok {
					errChan = nil
					continue
				}
				if err != nil {
					emit(middleware.StreamChunk{Error: fmt.Errorf("fetcher error: %w", err)})
					return
				}

			case item, ok := <-dataChan:
				if !ok {
					// The fetcher may report a late iteration error after
					// closing the data channel.
					if errChan != nil {
						if err := <-errChan; err != nil {
							emit(middleware.StreamChunk{Error: fmt.Errorf("fetcher error: %w", err)})
							return
						}
					}

					*jsonBuf = append(*jsonBuf, ']')
					if emit(middleware.StreamChunk{JSONBuf: jsonBuf}) {
						jsonBuf = nil
					}
					return
				}

				transformed, err := transformer(item)
				if err != nil {
					emit(middleware.StreamChunk{Error: fmt.Errorf("transformer error: %w", err)})
					return
				}

				jsonData, err := json.Marshal(transformed)
				if err != nil {
					emit(middleware.StreamChunk{Error: fmt.Errorf("JSON marshal error: %w", err)})
					return
				}

				if !firstItem {
					*jsonBuf = append(*jsonBuf, ',')
				}
				firstItem = false
				*jsonBuf = append(*jsonBuf, jsonData...)

				if len(*jsonBuf) > s.config.ChunkThreshold {
					if !emit(middleware.StreamChunk{JSONBuf: jsonBuf}) {
						return
					}
					jsonBuf = s.bufferPool.Get()
				}
			}
		}
	}()

	return middleware.StreamResponse{
		TotalCount: -1,
		ChunkChan:  chunkChan,
		Release:    s.bufferPool.Put,
		Code:       http.StatusOK,
	}
}
