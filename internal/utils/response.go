package utils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// JSONError writes the error envelope. "detail" mirrors "message" for
// clients written against the first revision of the API.
func JSONError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"status": "error", "message": msg, "detail": msg})
}

// FromError picks the status for err and writes it with JSONError.
func FromError(c *fiber.Ctx, err error) error {
	return JSONError(c, StatusFor(err), err.Error())
}

// ErrorHandler is the fiber.Config ErrorHandler: errors that reach it are
// rendered with the same envelope as handler errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := StatusFor(err)
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
	}
	return JSONError(c, code, err.Error())
}

var quotedStringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r", "", "\n", "")

// AttachmentHeader is a Content-Disposition value naming filename as a
// quoted-string. The name is escaped, not rewritten.
func AttachmentHeader(filename string) string {
	return `attachment; filename="` + quotedStringEscaper.Replace(filename) + `"`
}
