package requests

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/janhq/ai-gateway/internal/utils/platformerrors"
)

var registerOnce sync.Once

// RegisterJSONFieldNames makes validation errors report json field names,
// e.g. history[2].role instead of History[2].Role.
func RegisterJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// BindJSON decodes and validates the body into dst. Every failure is a
// validation error naming the offending field where one is known.
func BindJSON(c *gin.Context, dst any) error {
	RegisterJSONFieldNames()
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}
	ctx := c.Request.Context()

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return platformerrors.NewValidationError(ctx, fieldPath(fe.Namespace()), fe.Error(), "")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return platformerrors.NewValidationError(ctx, typeErr.Field, err.Error(), "")
	}

	if errors.Is(err, io.EOF) {
		return platformerrors.NewValidationError(ctx, "body", "request body is empty", "")
	}
	return platformerrors.NewValidationError(ctx, "body", err.Error(), "")
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
