package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
	toolx "github.com/tanpawarit/Chative-Shop-Assistant/agent/tool"
)

type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type ToolDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid request body: " + err.Error()})
		return
	}

	result, err := s.runner.HandleQuery(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, contractx.ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
			return
		}
		_ = c.Error(err)
		log.Error().Err(err).Msg("query failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "internal server error"})
		return
	}

	if result.ToolsUsed == nil {
		result.ToolsUsed = []string{}
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleTools(c *gin.Context) {
	infos := toolx.Infos()
	out := make([]ToolDescriptor, 0, len(infos))
	for _, info := range infos {
		out = append(out, ToolDescriptor{Name: info.Name, Description: info.Desc})
	}
	c.JSON(http.StatusOK, gin.H{"tools": out})
}
