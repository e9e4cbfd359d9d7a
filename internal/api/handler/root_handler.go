package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/binarcar/car-rental/docs"
)

type RootHandler struct{}

func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// Index handles GET /.
func (h *RootHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Car rental API is up and running!",
	})
}

// Documentation serves the generated OpenAPI document at /documentation.json.
func (h *RootHandler) Documentation(c echo.Context) error {
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(docs.SwaggerInfo.ReadDoc()))
}
