package errors

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

const unexpectedDetail = "An unexpected error occurred"

// ErrorMapper maps domain/application errors to ProblemDetail. Mappers report
// false for errors they do not own.
type ErrorMapper func(err error) (ProblemDetail, bool)

// ChainedResponder writes problem+json responses, asking each mapper in turn
// before falling back to a generic 500.
type ChainedResponder struct {
	baseURI string
	mappers []ErrorMapper
	logger  *slog.Logger
}

// NewChainedResponder creates a responder with custom error mappers. A
// non-empty baseURI is prepended to relative problem types.
func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{baseURI: baseURI, mappers: mappers}
}

// WithLogger sets the logger used for unmapped errors.
func (r *ChainedResponder) WithLogger(logger *slog.Logger) *ChainedResponder {
	r.logger = logger
	return r
}

// Resolve returns the problem for err and whether any mapper claimed it.
// Unmapped errors never echo their message to the client.
func (r *ChainedResponder) Resolve(err error) (ProblemDetail, bool) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem, true
	}
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			return problem, true
		}
	}
	return ErrInternal.WithDetail(unexpectedDetail), false
}

// Respond sends a ProblemDetail response with proper content type. The trace
// id of the request span is attached so clients can quote it.
func (r *ChainedResponder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		problem = problem.WithExtension("traceId", sc.TraceID().String())
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError resolves err and responds; unmapped errors are logged.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	problem, mapped := r.Resolve(err)
	if !mapped {
		logger := r.logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(c.Request.Context(), "unmapped API error",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()))
	}
	r.Respond(c, problem)
}
