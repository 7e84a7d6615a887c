package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

// saveUpload copies the multipart file under field into dir and returns the
// local path plus a cleanup func that removes it. A missing file yields an
// empty path and a no-op cleanup.
func saveUpload(c echo.Context, field, dir string) (string, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", noop, nil
	}
	if err != nil {
		return "", noop, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}

	src, err := fh.Open()
	if err != nil {
		return "", noop, fmt.Errorf("open upload %s: %w", field, err)
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", noop, fmt.Errorf("create upload dir: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.CreateTemp(dir, field+"-*"+ext)
	if err != nil {
		return "", noop, fmt.Errorf("create temp file: %w", err)
	}
	path := dst.Name()
	cleanup := func() { _ = os.Remove(path) }

	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cleanup()
		return "", noop, fmt.Errorf("store upload %s: %w", field, err)
	}
	return path, cleanup, nil
}
