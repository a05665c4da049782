// Package handlers holds the gin handlers of the API server.
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/axiomgfx-dili/pkg/errors"
	"github.com/turtacn/axiomgfx-dili/pkg/types/common"
)

// writeError maps err to its status and the {error, code} body.  Server-side
// failures that did not come from an upstream are masked.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	status := errors.HTTPStatus(err)
	var ae *errors.AppError
	if !errors.As(err, &ae) {
		c.AbortWithStatusJSON(status, common.ErrorResponse{
			Error: errors.DefaultMessageForCode(errors.ErrCodeInternal),
			Code:  errors.ErrCodeInternal.String(),
		})
		return
	}

	msg := ae.Message
	switch {
	case status >= 500 && !errors.IsUpstream(ae):
		msg = errors.DefaultMessageForCode(errors.ErrCodeInternal)
	case ae.Detail != "":
		msg = fmt.Sprintf("%s: %s", ae.Message, ae.Detail)
	}
	c.AbortWithStatusJSON(status, common.ErrorResponse{Error: msg, Code: ae.Code.String()})
}

// bindJSON decodes the request body, answering 400 itself on failure.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		writeError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed JSON body"))
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, code errors.ErrorCode) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(code, key+" must be an integer").WithDetail(raw)
	}
	return n, nil
}

func queryFloat(c *gin.Context, key string, code errors.ErrorCode) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New(code, key+" must be a number").WithDetail(raw)
	}
	return &f, nil
}

func queryBool(c *gin.Context, key string, code errors.ErrorCode) (bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New(code, key+" must be true or false").WithDetail(raw)
	}
	return b, nil
}

// attachment sets a download disposition.
func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// NotFound answers unmatched routes with the standard body.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, common.ErrorResponse{
		Error: errors.DefaultMessageForCode(errors.ErrCodeNotFound),
		Code:  errors.ErrCodeNotFound.String(),
	})
}

// MethodNotAllowed answers known paths called with the wrong verb.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, common.ErrorResponse{
		Error: errors.DefaultMessageForCode(errors.ErrCodeMethodNotAllowed),
		Code:  errors.ErrCodeMethodNotAllowed.String(),
	})
}

//Personal.AI order the ending
