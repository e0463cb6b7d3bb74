package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/middleware"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrMissingAuth if not present.
func getUserID(c *gin.Context) (uint, error) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return 0, apperrors.ErrMissingAuth
	}
	id, ok := userID.(uint)
	if !ok {
		return 0, apperrors.ErrMissingAuth
	}
	return id, nil
}

// parsePathID parses a uint path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer,
// and notFound for a well-formed id no stored row can carry.
//
//nolint:unparam // param is generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string, notFound *apperrors.AppError) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	// Store keys are signed 64-bit.
	if id > math.MaxInt64 || uint64(uint(id)) != id {
		return 0, notFound
	}
	return uint(id), nil
}

// bindJSON decodes the request body into obj and maps decoding failures to
// client errors: an empty body is "Missing fields", unparseable JSON is
// "Invalid JSON", and wrongly typed or invalid values name the field.
func bindJSON(c *gin.Context, obj interface{}) error {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}
	err = binding.JSON.BindBody(body, obj)
	if err == nil {
		return nil
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, io.EOF):
		return apperrors.ErrInvalidInput
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperrors.ErrInvalidJSON
	case errors.As(err, &typeErr):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("Invalid value for %s", typeErr.Field))
	case errors.As(err, &validationErrs):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, describeValidation(validationErrs))
	default:
		// Errors from a field's UnmarshalJSON (decimal, date) carry no field
		// name and must not reach the client verbatim.
		if field := rejectedField(body, obj); field != "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("Invalid value for %s", field))
		}
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid value")
	}
}

// rejectedField decodes each top-level member of body on its own against the
// matching field of obj and returns the JSON name of the first that fails.
func rejectedField(body []byte, obj interface{}) string {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(body, &members); err != nil {
		return ""
	}

	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return ""
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		raw, ok := members[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, reflect.New(f.Type).Interface()); err != nil {
			return name
		}
	}
	return ""
}

// describeValidation renders the first failed field as a client message.
func describeValidation(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return apperrors.ErrInvalidInput.Message
	}
	fe := errs[0]
	field := toSnake(fe.Field())
	switch fe.Tag() {
	case "money":
		return fmt.Sprintf("Invalid %s: at most two decimal places and twelve integer digits", field)
	case "flexdate":
		return fmt.Sprintf("Invalid %s: expected YYYY-MM-DD", field)
	case "max":
		return fmt.Sprintf("Invalid %s: longer than %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("Invalid %s: must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("Invalid %s", field)
	}
}

// toSnake turns a Go field name into its JSON name, e.g. CategoryID into
// category_id.
func toSnake(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			if prevLower {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
			prevLower = false
		} else {
			prevLower = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

// respondWithError writes the JSON error body for err.
func respondWithError(c *gin.Context, err error) {
	middleware.RespondWithError(c, err)
}

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Error string `json:"error" example:"Missing fields"`
	Code  string `json:"code" example:"INVALID_INPUT"`
}

// HealthResponse is the body of the health check.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// bindQueryError maps a query binding failure to a client error.
func bindQueryError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, describeValidation(validationErrs))
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid query parameter")
}
