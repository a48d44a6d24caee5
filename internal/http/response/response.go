package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/metaman/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError writes e, hiding the message of server-side failures.
func RespondAPIError(c *gin.Context, e *apierr.Error) {
	if e.Status >= http.StatusInternalServerError {
		c.JSON(e.Status, ErrorEnvelope{Error: APIError{Message: http.StatusText(e.Status), Code: e.Code}})
		return
	}
	RespondError(c, e.Status, e.Code, e)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondCreated writes 201 with no body.
func RespondCreated(c *gin.Context, location string) {
	if location != "" {
		c.Header("Location", location)
	}
	c.Status(http.StatusCreated)
}
