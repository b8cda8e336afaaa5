package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/spigell/candidate-sourcer/internal/ai"
	"github.com/spigell/candidate-sourcer/internal/sourcing"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type recruitersRequest struct {
	Query         string `json:"query" validate:"required"`
	MaxCandidates int    `json:"maxCandidates"`
	HiringCompany string `json:"hiringCompany"`
}

type recruitersResponse struct {
	Result *sourcing.Result `json:"result"`
}

type message struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type agentRequest struct {
	Query         string    `json:"query" validate:"required"`
	MaxCandidates int       `json:"maxCandidates"`
	HiringCompany string    `json:"hiringCompany"`
	Messages      []message `json:"messages" validate:"dive"`
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status: "healthy",
		Uptime: time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) recruiters(c echo.Context) error {
	var req recruitersRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, http.StatusBadRequest, "invalid_request", err)
	}

	result, err := s.runner.Run(c.Request().Context(), sourcing.Input{
		Request:       strings.TrimSpace(req.Query),
		MaxCandidates: sourcing.ClampCandidates(req.MaxCandidates, s.cfg.RecruiterMaxCandidates),
		HiringCompany: req.HiringCompany,
	})
	if err != nil {
		return s.workflowError(c, err)
	}

	return c.JSON(http.StatusOK, recruitersResponse{Result: result})
}

func (s *Server) agent(c echo.Context) error {
	var req agentRequest
	if err := s.bind(c, &req); err != nil {
		return s.fail(c, http.StatusBadRequest, "invalid_request", err)
	}

	history := make([]ai.Turn, 0, len(req.Messages))
	for _, m := range req.Messages {
		role, _ := ai.ParseRole(m.Role)
		history = append(history, ai.Turn{Role: role, Content: m.Content})
	}

	result, err := s.runner.Run(c.Request().Context(), sourcing.Input{
		Request:       strings.TrimSpace(req.Query),
		MaxCandidates: sourcing.ClampCandidates(req.MaxCandidates, s.cfg.AgentMaxCandidates),
		History:       history,
		HiringCompany: req.HiringCompany,
	})
	if err != nil {
		return s.workflowError(c, err)
	}

	return c.JSON(http.StatusOK, sourcing.Clarify(result))
}

func (s *Server) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(fields, ", "))
		}
		return err
	}

	var query string
	switch r := req.(type) {
	case *recruitersRequest:
		query = r.Query
	case *agentRequest:
		query = r.Query
	}
	if strings.TrimSpace(query) == "" {
		return errors.New("query must not be blank")
	}
	return nil
}

func (s *Server) workflowError(c echo.Context, err error) error {
	var cge *sourcing.CriteriaGenerationError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return s.fail(c, http.StatusGatewayTimeout, "timeout", err)
	case errors.As(err, &cge):
		return s.fail(c, http.StatusBadGateway, "criteria_generation_failed", err)
	default:
		return s.fail(c, http.StatusInternalServerError, "workflow_failed", err)
	}
}

func (s *Server) fail(c echo.Context, status int, code string, err error) error {
	s.logger.Warn("request failed",
		zap.String(ctxRequestID, getRequestID(c)),
		zap.String("code", code),
		zap.Error(err),
	)
	return c.JSON(status, ErrorResponse{
		Error:     code,
		Message:   err.Error(),
		RequestID: getRequestID(c),
		Timestamp: time.Now().UTC(),
	})
}
