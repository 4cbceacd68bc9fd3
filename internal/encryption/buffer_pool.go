package encryption

import (
	"sync"

	"github.com/idelchi/tentcrypt/internal/config"
)

// chunkPool provides reusable chunk buffers for the streaming pipelines.
//
//nolint:gochecknoglobals
var chunkPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, config.DefaultChunkSize)

		return &buf
	},
}

// getChunk returns a buffer of exactly size bytes.
func getChunk(size int) *[]byte {
	bp := chunkPool.Get().(*[]byte) //nolint:forcetypeassert

	if cap(*bp) < size {
		*bp = make([]byte, size)
	}

	*bp = (*bp)[:size]

	return bp
}

// putChunk wipes the buffer and returns it to the pool.
func putChunk(bp *[]byte) {
	clear(*bp)
	chunkPool.Put(bp)
}
