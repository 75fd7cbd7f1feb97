package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/universalexpress181/universal-express-sub001/internal/domain"
	"github.com/universalexpress181/universal-express-sub001/internal/service"
	"github.com/universalexpress181/universal-express-sub001/internal/web"
)

// HeaderAPIKey carries the machine-client secret.
const HeaderAPIKey = "x-api-key"

const localsAPIKey = "apiKey"

// APIKeyAuth guards the programmatic surface. Authentication fails closed
// with a uniform 401; on success every call is audited after the handler
// runs, including handler failures, so quota accounting survives errors.
func APIKeyAuth(gateway *service.GatewayService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key, err := gateway.Authenticate(c.Context(), c.Get(HeaderAPIKey))
		if err != nil {
			return web.UnauthorizedResponse(c)
		}

		c.Locals(localsAPIKey, key)

		// Copy before Next: fasthttp reuses the underlying buffers.
		method := c.Method()
		endpoint := c.Path()
		requestBody := string(c.Body())

		if err := c.Next(); err != nil {
			statusCode := fiber.StatusInternalServerError
			if fiberErr, ok := err.(*fiber.Error); ok {
				statusCode = fiberErr.Code
			}
			gateway.Record(key, method, endpoint, requestBody, err.Error(), statusCode)
			return err
		}

		gateway.Record(key, method, endpoint, requestBody,
			string(c.Response().Body()), c.Response().StatusCode())
		return nil
	}
}

// APIKeyFromContext returns the key stored by APIKeyAuth, or nil outside the
// guarded surface.
func APIKeyFromContext(c *fiber.Ctx) *domain.APIKey {
	key, _ := c.Locals(localsAPIKey).(*domain.APIKey)
	return key
}
