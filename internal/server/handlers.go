package server

import (
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/sipgo/internal/cache"
	"github.com/rgehrsitz/sipgo/internal/calculation"
	"github.com/rgehrsitz/sipgo/internal/compare"
	"github.com/rgehrsitz/sipgo/internal/domain"
	"github.com/rgehrsitz/sipgo/internal/transform"
	"github.com/valyala/fasthttp"
)

func (s *Server) handleProjections(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	body := ctx.PostBody()

	var req ProjectionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	cfg := &req.Configuration
	if err := s.prepare(cfg); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	asOf := s.asOf(req.AsOf)
	resp := ProjectionResponse{
		CalculationID: s.NewID(),
		AsOf:          domain.Date{Time: asOf},
	}

	rctx, cancel := s.requestContext()
	defer cancel()

	key := cache.Key("projections", body, asOf)
	var payload cachedProjection
	if s.Cache != nil {
		err := cache.GetJSON(rctx, s.Cache, key, &payload)
		switch {
		case err == nil:
			resp.Cached = true
		case !errors.Is(err, cache.ErrMiss):
			s.Log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
	}

	if !resp.Cached {
		eng := s.engineFor(cfg, asOf)
		results, err := eng.ProjectAll(rctx, cfg)
		if err != nil {
			writeError(ctx, statusFor(err), "Projection failed: "+err.Error())
			return
		}
		payload.Results = results

		if req.IncludeSchedules {
			payload.Schedules = buildSchedules(eng, cfg, results)
		}

		if s.Cache != nil {
			if err := cache.SetJSON(rctx, s.Cache, key, payload, s.CacheTTL); err != nil {
				s.Log.Warn().Err(err).Str("key", key).Msg("cache write failed")
			}
		}
	}

	resp.Results = payload.Results
	resp.Schedules = payload.Schedules
	report := domain.PlanReport{Projections: resp.Results}
	resp.TotalMonthly = report.TotalRequiredMonthly()
	resp.DurationMs = time.Since(start).Milliseconds()

	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func buildSchedules(eng *calculation.CalculationEngine, cfg *domain.Configuration, results []domain.ProjectionResult) []domain.GoalSchedule {
	schedules := make([]domain.GoalSchedule, 0, len(results))
	for i := range cfg.Goals {
		schedules = append(schedules, domain.GoalSchedule{
			GoalID: cfg.Goals[i].ID,
			Rows:   eng.Schedule(&cfg.Goals[i], results[i], cfg.ReturnAssumptions),
		})
	}
	return schedules
}

func (s *Server) handleCompare(ctx *fasthttp.RequestCtx) {
	start := time.Now()

	var req CompareRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.GoalID == "" {
		writeError(ctx, fasthttp.StatusBadRequest, "goal_id is required")
		return
	}

	cfg := &req.Plan
	if err := s.prepare(cfg); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	if _, ok := cfg.FindGoal(req.GoalID); !ok {
		writeError(ctx, fasthttp.StatusNotFound, "Goal not found: "+req.GoalID)
		return
	}

	rctx, cancel := s.requestContext()
	defer cancel()

	asOf := s.asOf(req.AsOf)
	engine := compare.NewCompareEngine(s.engineFor(cfg, asOf))
	compSet, err := engine.Compare(rctx, cfg, compare.CompareOptions{
		GoalID:     req.GoalID,
		Templates:  req.Templates,
		Transforms: req.Transforms,
		AsOf:       asOf,
	})
	if err != nil {
		if rctx.Err() != nil {
			writeError(ctx, statusFor(rctx.Err()), "Comparison failed: "+err.Error())
			return
		}
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, CompareResponse{
		CalculationID: s.NewID(),
		AsOf:          domain.Date{Time: asOf},
		DurationMs:    time.Since(start).Milliseconds(),
		Comparison:    compSet,
	})
}

func (s *Server) handleTemplates(ctx *fasthttp.RequestCtx) {
	registry := transform.CreateBuiltInTemplates()
	names := registry.List()
	templates := make([]TemplateInfo, 0, len(names))
	for _, name := range names {
		t, _ := registry.Get(name)
		templates = append(templates, TemplateInfo{Name: t.Name, Description: t.Description})
	}
	writeJSON(ctx, fasthttp.StatusOK, templates)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to encode response: "+err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	data, _ := json.Marshal(ErrorResponse{Status: status, Message: message})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(data)
}
