package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodyBytes caps request bodies at 1 MiB; booking payloads are a
// few hundred bytes, so anything near the cap is garbage.
const DefaultMaxBodyBytes int64 = 1 << 20

func MaxBodyBytes(max int64) gin.HandlerFunc {
	if max <= 0 {
		max = DefaultMaxBodyBytes
	}

	return func(ctx *gin.Context) {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, max)
		ctx.Next()
	}
}
