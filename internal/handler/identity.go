package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seckc/community-api/internal/identity"
)

// MintIdentity issues a fresh anonymous identifier.  Clients that
// cannot generate one locally (or lost their device storage) call this
// once and persist the result; the server keeps no record of it until
// the identifier first appears on an RSVP.
func MintIdentity(c echo.Context) error {
	return c.JSON(http.StatusCreated, echo.Map{
		"anonymous_id": identity.Generate(time.Now()),
	})
}
