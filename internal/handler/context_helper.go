package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/apper-apps/scholar-array-protocol/internal/models"
	appErrors "github.com/apper-apps/scholar-array-protocol/pkg/errors"
)

// pathID parses a positive integer identity from the named path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.InvalidInput(fmt.Sprintf("%s must be a positive integer", name))
	}
	return id, nil
}

// queryID parses an optional identity query parameter. Wrapped forms such as {"Id":5} are accepted.
func queryID(c *gin.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, ok := models.UnwrapForeignKey(raw)
	if !ok {
		var key models.ForeignKey
		if err := key.UnmarshalJSON([]byte(raw)); err != nil {
			return nil, appErrors.InvalidInput(fmt.Sprintf("%s must be an integer identity", name))
		}
		id = key.Int64()
	}
	if id <= 0 {
		return nil, appErrors.InvalidInput(fmt.Sprintf("%s must be a positive integer", name))
	}
	return &id, nil
}

func queryInt(c *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, appErrors.InvalidInput(fmt.Sprintf("%s must be an integer", name))
	}
	return &v, nil
}

func queryDate(c *gin.Context, name string) (*models.Date, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, appErrors.InvalidInput(fmt.Sprintf("%s must be YYYY-MM-DD", name))
	}
	return &d, nil
}

func bindJSON(c *gin.Context, dest interface{}) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, "invalid request body")
	}
	return nil
}
