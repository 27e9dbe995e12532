package router

import (
	"context"
	"net/http"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/apperr"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/storage/pg"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/dataset"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/report"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/runner"
	"github.com/DjordjeVuckovic/poliinfo-eval/pkg/pagination"
	"github.com/labstack/echo/v4"
)

const RunIDHeader = "X-Run-Id"

type Evaluator interface {
	Run(ctx context.Context, targets, gold []dataset.Instance) (*runner.Result, error)
}

type RunLister interface {
	ListRuns(ctx context.Context, req pagination.OffsetRequest) (*pagination.OffsetResult[pg.RunSummary], error)
}

type EvaluationRouter struct {
	e         *echo.Echo
	evaluator Evaluator
	gold      []dataset.Instance
	runs      RunLister
}

type EvaluationRouterOption func(*EvaluationRouter)

// WithRunLister exposes persisted runs under GET /api/v1/runs.
func WithRunLister(runs RunLister) EvaluationRouterOption {
	return func(r *EvaluationRouter) {
		r.runs = runs
	}
}

func NewEvaluationRouter(e *echo.Echo, evaluator Evaluator, gold []dataset.Instance, opts ...EvaluationRouterOption) *EvaluationRouter {
	r := &EvaluationRouter{
		e:         e,
		evaluator: evaluator,
		gold:      gold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *EvaluationRouter) Bind() {
	g := r.e.Group("/api/v1")
	g.POST("/evaluations", r.evaluateHandler)
	if r.runs != nil {
		g.GET("/runs", r.listRunsHandler)
	}
}

// evaluateHandler scores the submitted target instances against the gold set.
// @Summary Evaluate summaries
// @Description Scores a JSON array of target instances against the gold standard loaded at startup
// @Tags evaluations
// @Accept json
// @Produce json
// @Param instances body []dataset.Instance true "Target instances"
// @Success 200 {object} report.Envelope
// @Failure 400 {object} map[string]any
// @Failure 422 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/v1/evaluations [post]
func (r *EvaluationRouter) evaluateHandler(c echo.Context) error {
	targets, err := dataset.Load(c.Request().Body)
	if err != nil {
		return err
	}
	if err := dataset.Validate(targets); err != nil {
		return err
	}

	res, err := r.evaluator.Run(c.Request().Context(), targets, r.gold)
	if err != nil {
		return err
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	resp.Header().Set(RunIDHeader, res.RunID)
	resp.WriteHeader(http.StatusOK)
	return report.WriteJSON(resp, res.Envelope)
}

// listRunsHandler lists persisted runs, newest first.
// @Summary List runs
// @Tags evaluations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} pagination.OffsetResult[pg.RunSummary]
// @Failure 400 {object} map[string]any
// @Router /api/v1/runs [get]
func (r *EvaluationRouter) listRunsHandler(c echo.Context) error {
	var req pagination.OffsetRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return apperr.NewValidationWrap("invalid pagination", err)
	}
	if err := req.Validate(); err != nil {
		return apperr.NewValidationWrap("invalid pagination", err)
	}

	page, err := r.runs.ListRuns(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}
