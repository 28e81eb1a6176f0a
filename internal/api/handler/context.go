package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fitexperts/experts-api/internal/api/middleware"
	"github.com/fitexperts/experts-api/internal/core/domain"
	"github.com/fitexperts/experts-api/internal/core/ports"
)

const photoField = "profilePhoto"

// actorID returns the identity attached by AuthGuard. Its absence means the
// route was registered without the guard.
func actorID(c echo.Context) (string, error) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return "", domain.ErrNoToken
	}
	return ident.ID, nil
}

// photoUpload reads the optional profile photo part. A missing part is not an error.
func photoUpload(c echo.Context) (*ports.FileUpload, error) {
	fh, err := c.FormFile(photoField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	return fileUpload(fh), nil
}

func fileUpload(fh *multipart.FileHeader) *ports.FileUpload {
	return &ports.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
