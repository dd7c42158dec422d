package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/curriculum/internal/app/models/dto"
)

// Health answers the liveness probe
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
