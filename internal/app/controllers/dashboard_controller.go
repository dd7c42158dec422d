package controllers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/curriculum/internal/app/models/dto"
	"github.com/yigit/curriculum/internal/app/services"
)

// DashboardTemplateName is the name the dashboard page is registered under
const DashboardTemplateName = "dashboard.html"

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"percent": func(ratio float64) string {
		return fmt.Sprintf("%.0f%%", ratio*100)
	},
	"average": func(avg *float64) string {
		if avg == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.2f", *avg)
	},
}

// Templates parses the embedded HTML templates for gin's HTML renderer.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

// DashboardController serves the progress overview
type DashboardController struct {
	curriculumService services.CurriculumService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(curriculumService services.CurriculumService) *DashboardController {
	return &DashboardController{
		curriculumService: curriculumService,
	}
}

// Index renders the semester grid with the program metrics
func (c *DashboardController) Index(ctx *gin.Context) {
	vp := c.curriculumService.BuildViewPackage(ctx)
	ctx.HTML(http.StatusOK, DashboardTemplateName, vp)
}

// GetDashboard returns the semester grid and metrics as JSON
// @Summary Get dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	vp := c.curriculumService.BuildViewPackage(ctx)
	ctx.JSON(http.StatusOK, dto.NewDashboardResponse(vp))
}
