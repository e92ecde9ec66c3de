package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	igerrors "igfollowers/pkg/errors"
	"igfollowers/pkg/loader"
)

// readSources reads the files posted under field. maxFiles of 0 means no limit.
func (s *Server) readSources(c echo.Context, field string, maxFiles int) ([]loader.Source, error) {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, s.cfg.Server.MaxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, igerrors.New(igerrors.ErrorTypeUpload,
				fmt.Sprintf("upload exceeds the %d MB limit", s.cfg.Server.MaxUploadBytes>>20))
		}
		return nil, igerrors.Wrap(igerrors.ErrorTypeUpload, "could not read upload", err)
	}

	files := form.File[field]
	if len(files) == 0 {
		return nil, igerrors.New(igerrors.ErrorTypeUpload, "no file selected")
	}
	if maxFiles > 0 && len(files) > maxFiles {
		return nil, igerrors.New(igerrors.ErrorTypeUpload, fmt.Sprintf("expected at most %d file(s), got %d", maxFiles, len(files)))
	}

	sources := make([]loader.Source, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, igerrors.Wrap(igerrors.ErrorTypeUpload, "could not open "+fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, igerrors.Wrap(igerrors.ErrorTypeUpload, "could not read "+fh.Filename, err)
		}
		sources = append(sources, loader.Source{Name: filepath.Base(fh.Filename), Data: data})
	}
	return sources, nil
}

func sourceNames(sources []loader.Source) []string {
	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.Name
	}
	return names
}
