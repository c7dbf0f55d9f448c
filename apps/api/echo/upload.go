package echoapi

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hadir/core"
	"github.com/trezcool/hadir/core/user"
)

var allowedProofTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

type uploadApi struct {
	conf *core.Config
}

func registerUploadAPI(g *echo.Group, jwt echo.MiddlewareFunc, conf *core.Config, usrSvc user.ServiceInterface) {
	api := uploadApi{conf: conf}

	ug := g.Group("/uploads", jwt)
	ug.POST("/proof", api.proof, requirePermission(usrSvc, user.PermProofUpload))
}

// proof stores a supporting document (doctor's note, permission letter) and
// returns its path, for use as the proof_ref of an attendance submission.
func (api *uploadApi) proof(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "a file is required"})
	}
	if fh.Size > api.conf.Attendance.MaxProofSize {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "file too large"})
	}

	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer src.Close()

	// sniff the content type instead of trusting the client header
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return errors.Wrap(err, "reading uploaded file")
	}
	if !allowedProofTypes[http.DetectContentType(head[:n])] {
		return core.NewValidationError(nil, core.FieldError{
			Field: "file", Error: "only JPEG, PNG and PDF files are accepted",
		})
	}
	if _, err = src.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "rewinding uploaded file")
	}

	dir := filepath.Join(api.conf.Attendance.MediaRoot, "proofs")
	if err = os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating media dir")
	}
	name := uuid.New().String() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return errors.Wrap(err, "creating proof file")
	}
	defer dst.Close()
	if _, err = io.Copy(dst, src); err != nil {
		return errors.Wrap(err, "saving proof file")
	}

	return ctx.JSON(http.StatusCreated, echo.Map{"path": filepath.Join("proofs", name)})
}
