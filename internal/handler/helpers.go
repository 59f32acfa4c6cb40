package handler

import (
	"errors"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := c.Params(key)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return uint(parsed), nil
}

func parseFormUint(c *fiber.Ctx, key string) (uint, error) {
	value := c.FormValue(key)
	if value == "" {
		return 0, errors.New("missing " + key)
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return uint(parsed), nil
}

func parseFormInt(c *fiber.Ctx, key string, fallback int) (int, error) {
	value := c.FormValue(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return parsed, nil
}

// optionalFormFile returns the named file part, or nil when the request
// carries none.
func optionalFormFile(c *fiber.Ctx, key string) *multipart.FileHeader {
	file, err := c.FormFile(key)
	if err != nil {
		return nil
	}
	return file
}
