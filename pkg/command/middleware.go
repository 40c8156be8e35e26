package command

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/chunkvault/chunkvault/internal/logger"
	"github.com/chunkvault/chunkvault/pkg/chunkerr"
)

// ValidationMiddleware runs go-playground/validator struct tags against the
// command payload before any handler executes. Order 100.
type ValidationMiddleware struct {
	validate *validator.Validate
}

// NewValidationMiddleware builds a ValidationMiddleware with a fresh
// validator instance.
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{validate: validator.New()}
}

func (m *ValidationMiddleware) Name() string { return "validation" }
func (m *ValidationMiddleware) Order() int   { return 100 }

func (m *ValidationMiddleware) Wrap(next Handler) Handler {
	return func(ctx context.Context, cmd any) (any, error) {
		if err := m.validate.Struct(cmd); err != nil {
			return nil, &chunkerr.ValidationError{Field: "command", Reason: err.Error()}
		}
		return next(ctx, cmd)
	}
}

// LoggingMiddleware logs a command's start and completion with its
// correlation ID. Order 200.
type LoggingMiddleware struct{}

func (m *LoggingMiddleware) Name() string { return "logging" }
func (m *LoggingMiddleware) Order() int   { return 200 }

func (m *LoggingMiddleware) Wrap(next Handler) Handler {
	return func(ctx context.Context, cmd any) (any, error) {
		correlationID, commandType := describe(cmd)
		logger.Info("command started", logger.CommandType(commandType), logger.CorrelationID(correlationID))

		result, err := next(ctx, cmd)

		if err != nil {
			logger.Error("command failed", logger.CommandType(commandType), logger.CorrelationID(correlationID), logger.Err(err))
		} else {
			logger.Info("command completed", logger.CommandType(commandType), logger.CorrelationID(correlationID))
		}
		return result, err
	}
}

// PerformanceMiddleware times the handler and warns when it exceeds
// thresholdMs. Order 300.
type PerformanceMiddleware struct {
	ThresholdMs float64
}

// NewPerformanceMiddleware builds a PerformanceMiddleware with the spec's
// 1000ms default warning threshold.
func NewPerformanceMiddleware() *PerformanceMiddleware {
	return &PerformanceMiddleware{ThresholdMs: 1000}
}

func (m *PerformanceMiddleware) Name() string { return "performance" }
func (m *PerformanceMiddleware) Order() int   { return 300 }

func (m *PerformanceMiddleware) Wrap(next Handler) Handler {
	return func(ctx context.Context, cmd any) (any, error) {
		start := time.Now()
		result, err := next(ctx, cmd)
		elapsedMs := float64(time.Since(start).Microseconds()) / 1000.0

		_, commandType := describe(cmd)
		if elapsedMs > m.ThresholdMs {
			logger.Warn("command exceeded performance threshold", logger.CommandType(commandType), logger.DurationMsAttr(elapsedMs))
		}
		return result, err
	}
}

func describe(cmd any) (correlationID, commandType string) {
	if c, ok := cmd.(Correlatable); ok {
		correlationID = c.CorrelationID()
	}
	commandType = reflectTypeName(cmd)
	return
}
