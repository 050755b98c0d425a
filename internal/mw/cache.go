package mw

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// HeaderCache reports whether a response was served from the cache.
const HeaderCache = "X-Cache"

type snapshot struct {
	status int
	header http.Header
	body   []byte
}

// recordingWriter tees the response body so it can be stored after the
// handler ran.
type recordingWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}

// FlushOnWrite empties the response cache after every successful request
// that is not a GET.
func FlushOnWrite(store *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Request.Method != http.MethodGet && isSuccess(c.Writer.Status()) {
			store.Flush()
		}
	}
}

func cacheKey(c *gin.Context) string {
	key := c.Request.RequestURI
	if req, found := RequesterFrom(c); found {
		key += "|" + string(req.Type) + ":" + strconv.FormatInt(req.ID, 10)
	}
	return key
}

// Cache serves repeated GET requests from store for duration. Entries are
// keyed by URI and caller; only 2xx responses are kept.
func Cache(store *cache.Cache, duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)
		if v, found := store.Get(key); found {
			snap := v.(snapshot)
			header := c.Writer.Header()
			for k, vals := range snap.header {
				header[k] = vals
			}
			header.Set(HeaderCache, "HIT")
			c.Writer.WriteHeader(snap.status)
			_, _ = c.Writer.Write(snap.body)
			c.Abort()
			return
		}

		c.Header(HeaderCache, "MISS")
		rw := &recordingWriter{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = rw
		c.Next()

		if status := rw.Status(); isSuccess(status) {
			header := rw.Header().Clone()
			header.Del(HeaderCache)
			store.Set(key, snapshot{status: status, header: header, body: rw.buf.Bytes()}, duration)
		}
	}
}
