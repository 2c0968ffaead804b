// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"github.com/alvinbaena/pwd-meter/internal/evaluator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"net/http"
	"unicode/utf8"
)

type analyzeApi struct {
	evaluator *evaluator.Evaluator
}

func (a *analyzeApi) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res := a.evaluator.Analyze(*req.Password)
	log.Debug().Msgf("analyzed a %d character password: %s", utf8.RuneCountInString(*req.Password), res.Level)

	c.JSON(http.StatusOK, res)
}

func root(c *gin.Context) {
	c.JSON(http.StatusOK, serviceResponse{Service: "Password Analyzer API", Standard: "NIST SP 800-63B"})
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "ok"})
}

// RegisterAnalyzeApi adds POST /analyze to group.
func RegisterAnalyzeApi(group *gin.RouterGroup, e *evaluator.Evaluator) {
	a := &analyzeApi{evaluator: e}
	group.POST("/analyze", a.analyze)
}

// RegisterServiceApi adds the service description and health routes to group.
func RegisterServiceApi(group *gin.RouterGroup) {
	group.GET("/", root)
	group.GET("/health", health)
}
