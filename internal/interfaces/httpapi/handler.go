package httpapi

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/tennis-ranking/internal/platform/logging"
	"github.com/riskibarqy/tennis-ranking/internal/usecase"
)

const birthDateLayout = "2006-01-02"

type Handler struct {
	playerService *usecase.PlayerService
	healthService *usecase.HealthService
	logger        *logging.Logger
	validator     *validator.Validate
	now           func() time.Time
}

func NewHandler(
	playerService *usecase.PlayerService,
	healthService *usecase.HealthService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	h := &Handler{
		playerService: playerService,
		healthService: healthService,
		logger:        logger,
		now:           time.Now,
	}
	h.validator = newRequestValidator(func() time.Time { return h.now() })

	return h
}

func newRequestValidator(now func() time.Time) *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		value, err := time.Parse(birthDateLayout, strings.TrimSpace(fl.Field().String()))
		if err != nil {
			// Reported by the datetime rule.
			return true
		}
		return !value.After(now())
	})

	return v
}

// fieldViolation is one rejected request field.
type fieldViolation struct {
	Field   string
	Message string
}

type requestValidationError struct {
	Violations []fieldViolation
}

func (e *requestValidationError) Error() string {
	return usecase.ErrInvalidInput.Error() + ": " + e.Summary()
}

func (e *requestValidationError) Summary() string {
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Message)
	}
	return strings.Join(messages, "; ")
}

func (e *requestValidationError) Unwrap() error {
	return usecase.ErrInvalidInput
}

var violationMessages = map[string]string{
	"lastName.required":   "Last name is mandatory",
	"lastName.nonblank":   "Last name is mandatory",
	"firstName.required":  "First name is mandatory",
	"firstName.nonblank":  "First name is mandatory",
	"birthDate.required":  "Birth date is mandatory",
	"birthDate.datetime":  "Birth date must use the YYYY-MM-DD format",
	"birthDate.notfuture": "Birth date must be in the past or present",
	"points.min":          "Points must be positive or zero",
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	err := h.validator.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &requestValidationError{Violations: []fieldViolation{{Message: err.Error()}}}
	}

	violations := make([]fieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		message, ok := violationMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			message = fe.Error()
		}
		violations = append(violations, fieldViolation{Field: fe.Field(), Message: message})
	}

	return &requestValidationError{Violations: violations}
}
