package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/curriculum/internal/app/models/dto"
	"github.com/yigit/curriculum/internal/app/services"
	"github.com/yigit/curriculum/internal/middleware"
	"github.com/yigit/curriculum/internal/pkg/apperrors"
)

// CourseController handles course lookups and updates
type CourseController struct {
	curriculumService services.CurriculumService
}

// NewCourseController creates a new CourseController
func NewCourseController(curriculumService services.CurriculumService) *CourseController {
	return &CourseController{
		curriculumService: curriculumService,
	}
}

// GetCourse retrieves a course by ID
// @Summary Get course details
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.CourseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /api/course/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, err := parseCourseID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	course, err := c.curriculumService.GetCourse(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewCourseResponse(course))
}

// UpdateCourse applies a partial update to a course
// @Summary Update a course
// @Description Updates title, enrolment and grade. Either every field is applied or none.
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body object true "title, enrolled or belegt, grade or note"
// @Success 200 {object} dto.UpdateCourseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Catalog could not be saved"
// @Router /api/course/{id} [post]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, err := parseCourseID(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrBadRequest, "invalid request body").
			WithDetails(map[string]interface{}{"reason": err.Error()}))
		return
	}

	result, err := c.curriculumService.UpdateCourse(ctx, id, toCoursePatch(req))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UpdateCourseResponse{
		ID:      result.Course.ID,
		Status:  result.State.Status,
		Label:   result.State.Label,
		Title:   result.Course.Title,
		Metrics: result.Metrics,
	})
}

func parseCourseID(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewBadRequestError("invalid course id")
	}
	return id, nil
}

func toCoursePatch(req dto.UpdateCourseRequest) services.CoursePatch {
	var patch services.CoursePatch
	if req.Title.Present {
		patch.Title = services.Field(req.Title.Value)
	}
	if req.Enrolled.Present {
		patch.Enrolled = services.Field(req.Enrolled.Value)
	}
	if req.Grade.Present {
		patch.Grade = services.Field(req.Grade.Value)
	}
	return patch
}
