package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// index serves the single-page front-end
func (h *Handler) index(c *gin.Context) {
	c.File(filepath.Join(h.opts.StaticDir, "index.html"))
}

// static serves files below StaticDir for every path no route matched.
// Unknown /api paths get a JSON 404 instead.
func (h *Handler) static(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	// Clean against a rooted path so ".." cannot climb out of StaticDir
	name := filepath.Join(h.opts.StaticDir, filepath.FromSlash(path.Clean("/"+c.Request.URL.Path)))
	info, err := os.Stat(name)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.File(name)
}
