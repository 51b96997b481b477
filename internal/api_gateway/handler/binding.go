package handler

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// bindOptionalJSON binds the body when one was sent and leaves obj at its
// zero value otherwise
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// dateQuery parses an optional YYYY-MM-DD query parameter
func dateQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a date in YYYY-MM-DD format", key)
	}
	return &t, nil
}
