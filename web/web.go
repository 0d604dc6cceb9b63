// Package web serves the embedded board UI: a single static page that
// drives the /api/v1 endpoints (board columns, trash view, modal form).
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var assets embed.FS

// Register mounts the UI at / and its assets under /static.
func Register(r *gin.Engine) {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	r.GET("/", func(c *gin.Context) {
		c.FileFromFS("/", http.FS(sub))
	})
	r.StaticFS("/static", http.FS(sub))
}
