package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

var bodyBinder = &echo.DefaultBinder{}

// bindBody decodes the JSON body into req and runs validation. Decoding
// failures (wrong JSON types included) are wrapped with decodeErr, failed
// validation with validateErr.
func bindBody(c echo.Context, req any, decodeErr, validateErr error) error {
	if err := bodyBinder.BindBody(c, req); err != nil {
		return fmt.Errorf("%w: %v", decodeErr, bindMessage(err))
	}
	if err := c.Validate(req); err != nil {
		return fmt.Errorf("%w: %v", validateErr, err)
	}
	return nil
}

func bindMessage(err error) any {
	if he, ok := err.(*echo.HTTPError); ok {
		if he.Internal != nil {
			return he.Internal
		}
		return he.Message
	}
	return err
}
