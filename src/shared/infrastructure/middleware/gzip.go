package middleware

import (
	"compress/gzip"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
)

// GzipOptions configura el middleware de compresión
type GzipOptions struct {
	ExcludedPaths []string
}

// ForceGzipOptions configura el middleware de compresión forzada
type ForceGzipOptions struct {
	CheckClientSupport bool
}

// GzipReader intenta descomprimir el body de las solicitudes entrantes
// con Content-Encoding: gzip
func GzipReader() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.Contains(c.GetHeader("Content-Encoding"), "gzip") {
			reader, err := gzip.NewReader(c.Request.Body)
			if err != nil {
				c.AbortWithStatus(400)
				return
			}
			defer reader.Close()
			c.Request.Body = io.NopCloser(reader)
			c.Request.Header.Del("Content-Encoding")
			c.Request.Header.Del("Content-Length")
		}
		c.Next()
	}
}

// GzipMiddleware comprime las respuestas cuando el cliente lo soporta,
// excepto en las rutas excluidas
func GzipMiddleware(opts GzipOptions) gin.HandlerFunc {
	excluded := make(map[string]bool, len(opts.ExcludedPaths))
	for _, path := range opts.ExcludedPaths {
		excluded[path] = true
	}

	return func(c *gin.Context) {
		if excluded[c.Request.URL.Path] {
			c.Next()
			return
		}
		if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}
		compressResponse(c)
	}
}

// ForceGzipMiddleware fuerza compresión en rutas específicas
func ForceGzipMiddleware(opts ForceGzipOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if opts.CheckClientSupport && !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}
		compressResponse(c)
	}
}

type gzipWriter struct {
	gin.ResponseWriter
	writer *gzip.Writer
}

func (g *gzipWriter) Write(data []byte) (int, error) {
	return g.writer.Write(data)
}

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.writer.Write([]byte(s))
}

func compressResponse(c *gin.Context) {
	gz := gzip.NewWriter(c.Writer)
	c.Header("Content-Encoding", "gzip")
	c.Header("Vary", "Accept-Encoding")
	c.Writer = &gzipWriter{ResponseWriter: c.Writer, writer: gz}

	defer func() {
		gz.Close()
		c.Header("Content-Length", "")
	}()

	c.Next()
}
