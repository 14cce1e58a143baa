package controllers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"reflect"
	"strings"
	"time"

	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"
	"github.com/FrankWaweru369/Infinity-backend/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const requestTimeout = 5 * time.Second

// uploads get a longer deadline than plain JSON calls.
const uploadTimeout = 2 * time.Minute

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			if name, _, _ := strings.Cut(f.Tag.Get(tag), ","); name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

func reqCtx(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

// bind parses the body (JSON or form) into dst and validates it.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Invalid("body", "invalid body")
	}
	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return apperr.Invalid(ve[0].Field(), fieldMessage(ve[0]))
	}
	return apperr.Invalid("body", "invalid body")
}

func fieldMessage(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "email":
		return f + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", f, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", f, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", f, fe.Param())
	case "url":
		return f + " must be a valid URL"
	case "datetime":
		return fmt.Sprintf("%s must match %s", f, fe.Param())
	}
	return "invalid " + f
}

// objectID reads a hex ObjectID route param.
func objectID(c *fiber.Ctx, param, kind string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(c.Params(param))
	if err != nil {
		return bson.NilObjectID, apperr.Invalid(param, "invalid "+kind+" id")
	}
	return id, nil
}

const (
	maxImageSize = 10 << 20
	maxVideoSize = 100 << 20
)

// formFile opens the named multipart file. It returns a nil Upload when the
// request carries no such file; the caller must run the returned closer.
func formFile(c *fiber.Ctx, field, mediaType string, maxSize int64) (*services.Upload, func(), error) {
	noop := func() {}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, noop, nil
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, noop, nil
	}
	fh := files[0]
	ct := fh.Header.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(ct, mediaType+"/") {
		article := "a "
		if mediaType == "image" {
			article = "an "
		}
		return nil, noop, apperr.Invalid(field, field+" must be "+article+mediaType+" file")
	}
	if fh.Size > maxSize {
		return nil, noop, apperr.Invalid(field, fmt.Sprintf("%s is larger than %d MB", field, maxSize>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, apperr.Invalid(field, "unreadable file")
	}
	return upload(fh, f, ct), func() { f.Close() }, nil
}

func upload(fh *multipart.FileHeader, f multipart.File, ct string) *services.Upload {
	return &services.Upload{Name: fh.Filename, ContentType: ct, Size: fh.Size, Body: f}
}
