package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// int64Param reads a positive integer path parameter. On failure it writes a
// 400 response and returns false.
func int64Param(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "Invalid path parameter", fmt.Errorf("%s must be a positive integer, got %q", name, raw))
		return 0, false
	}
	return id, true
}
