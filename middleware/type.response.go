package middleware

import "time"

// Response is what handlers pass to send
type Response struct {
	Data    any
	Message string
	Code    int
	Error   error
}

// ResponseAPIDebug is attached to responses in debug mode
type ResponseAPIDebug struct {
	Version   string    `json:"version"`
	Error     *string   `json:"error"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	RuntimeMs int64     `json:"runtimeMs"`
}

// ResponseAPI is the JSON envelope of every non-streamed response
type ResponseAPI struct {
	RequestID string            `json:"requestId"`
	Data      any               `json:"data"`
	Message   string            `json:"message"`
	Debug     *ResponseAPIDebug `json:"debug,omitempty"`
}

// StreamChunk carries either an encoded piece of the body or an error
type StreamChunk struct {
	JSONBuf *[]byte
	Error   error
}

// StreamResponse is written as a JSON array body, TotalCount goes to the
// X-Total-Count header when known (>= 0). Release, when set, takes back
// every chunk buffer once it has been written or dropped.
type StreamResponse struct {
	TotalCount int64
	ChunkChan  <-chan StreamChunk
	Release    func(buf *[]byte)
	Error      error
	Code       int
}

func (r StreamResponse) release(chunk StreamChunk) {
	if r.Release != nil && chunk.JSONBuf != nil {
		r.Release(chunk.JSONBuf)
	}
}

// drain consumes the remaining chunks so the producer can exit.
func (r StreamResponse) drain() {
	for chunk := range r.ChunkChan {
		r.release(chunk)
	}
}

// Send and SendStream are stored on the gin context by ResponseInit.
type (
	Send       = func(Response)
	SendStream = func(StreamResponse)
)
