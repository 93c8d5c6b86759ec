// Package web embeds the browser form served at the site root. The page is
// plain HTML+JS talking to the JSON API; all logic stays server-side.
package web

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed index.html
var indexPage []byte

// Index serves the classifier form page.
func Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
}
