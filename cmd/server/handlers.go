package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/Ritapaz/projeto/internal/config"
	"github.com/Ritapaz/projeto/pkg/model"
	"github.com/Ritapaz/projeto/pkg/solver"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type server struct {
	cfg    config.Config
	logger zerolog.Logger
}

func newRouter(cfg config.Config, logger zerolog.Logger) *gin.Engine {
	server := &server{cfg: cfg, logger: logger}

	router := gin.New()
	router.Use(gin.Recovery(), server.logRequests)

	router.GET("/healthz", server.health)
	router.POST("/feasibility", server.feasibility)
	router.POST("/schedule", server.schedule)
	return router
}

func (server *server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	server.logger.Info().
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Int("status", c.Writer.Status()).
		Dur("duration", time.Since(start)).
		Msg("request served")
}

func (server *server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "solvers": solver.Names()})
}

func (server *server) feasibility(c *gin.Context) {
	rawInput, ok := server.bindInput(c)
	if !ok {
		return
	}

	report, err := model.AnalyzeFeasibility(rawInput.Courses)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"periods": report.Periods, "bottlenecks": len(report.Bottlenecks())})
}

// schedule accepts a dataset and answers with the run result. Infeasible and timed out runs are
// answered with 200 and their status, only malformed datasets are client errors.
func (server *server) schedule(c *gin.Context) {
	optimizer, err := solver.ByName(c.DefaultQuery("solver", server.cfg.Solver))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	options := model.Options{
		MaxDaysPerProfessor: server.cfg.MaxDaysPerProfessor,
		PrerequisiteWeight:  server.cfg.PrerequisiteWeight,
		PreferenceWeight:    server.cfg.PreferenceWeight,
		TimeBudget:          server.cfg.TimeBudget,
		Logger:              &server.logger,
	}
	if budget := c.Query("budget"); budget != "" {
		options.TimeBudget, err = time.ParseDuration(budget)
		if err != nil || options.TimeBudget < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid budget: " + budget})
			return
		}
	}

	rawInput, ok := server.bindInput(c)
	if !ok {
		return
	}
	input, err := model.ProcessRawInput(rawInput)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid input", "problems": problems(err)})
		return
	}

	result, err := model.NewScheduler(optimizer, options).Build(c.Request.Context(), input)
	if err != nil {
		server.logger.Error().Err(err).Msg("schedule construction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"result": result}
	if err := result.Err(); err != nil {
		response["error"] = err.Error()
	}
	c.JSON(http.StatusOK, response)
}

func (server *server) bindInput(c *gin.Context) (model.RawModelInput, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body: " + err.Error()})
		return model.RawModelInput{}, false
	}
	rawInput, err := model.RawInputFromBytes(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return model.RawModelInput{}, false
	}
	return rawInput, true
}

func problems(err error) []model.ValidationError {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	problems := make([]model.ValidationError, 0, len(errs))
	for _, err := range errs {
		var validationError model.ValidationError
		if errors.As(err, &validationError) {
			problems = append(problems, validationError)
		}
	}
	return problems
}
