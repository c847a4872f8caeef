package middleware

import (
	"catalog/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Validate runs the given rules against the route params and JSON body. Any
// violation ends the request with 400 and the full list of violations;
// otherwise the request continues untouched. Payloads not sent as
// application/json are treated as an empty body.
func Validate(rules ...validation.Rule) fiber.Handler {
	return validate(true, rules)
}

// ValidateParams runs rules that only look at route params. The request body
// is never read.
func ValidateParams(rules ...validation.Rule) fiber.Handler {
	return validate(false, rules)
}

func validate(readBody bool, rules []validation.Rule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := validation.Body{}
		if readBody && c.Is("json") {
			parsed, err := validation.ParseBody(c.Body())
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"errors": []validation.Violation{{Field: "body", Message: "JSON no válido"}},
				})
			}
			body = parsed
		}

		req := &validation.Request{
			Params: c.AllParams(),
			Body:   body,
		}
		if violations := validation.Check(req, rules...); len(violations) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": violations,
			})
		}

		c.Locals(bodyKey, body)
		return c.Next()
	}
}

type localsKey string

const bodyKey localsKey = "validatedBody"

// Body returns the body parsed by Validate, or an empty body when the route
// had no validation.
func Body(c *fiber.Ctx) validation.Body {
	if body, ok := c.Locals(bodyKey).(validation.Body); ok {
		return body
	}
	return validation.Body{}
}
