package studio

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridoystarlord/visusql/export"
	"github.com/ridoystarlord/visusql/schema"
)

// apiResponse is the body of every JSON reply.
type apiResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func success(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, apiResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func fail(c *gin.Context, statusCode int, err error, message string) {
	resp := apiResponse{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(statusCode, resp)
}

// failFor replies with the status matching a model error.
func failFor(c *gin.Context, err error, message string) {
	fail(c, statusFor(err), err, message)
}

// statusFor maps model errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, schema.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, schema.ErrInvalidName),
		errors.Is(err, schema.ErrInvalidColumn),
		errors.Is(err, export.ErrEmptySchema):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
