package handlers

import (
	"log"

	"github.com/JohnConnorCode/roofing-made-easy/app/dto"
	"github.com/JohnConnorCode/roofing-made-easy/app/middleware"
	businessflow "github.com/JohnConnorCode/roofing-made-easy/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// JobHandlerInterface defines the contract for job scheduling handlers
type JobHandlerInterface interface {
	CreateJob(c fiber.Ctx) error
	ListJobs(c fiber.Ctx) error
	GetJob(c fiber.Ctx) error
	UpdateJob(c fiber.Ctx) error
}

// JobHandler handles the back office job endpoints
type JobHandler struct {
	jobFlow   businessflow.JobFlow
	validator *validator.Validate
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobFlow businessflow.JobFlow) *JobHandler {
	return &JobHandler{
		jobFlow:   jobFlow,
		validator: validator.New(),
	}
}

// CreateJob schedules work for a lead
// @Summary Create Job
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body dto.CreateJobRequest true "Job data"
// @Success 201 {object} dto.APIResponse{data=dto.JobDTO} "Job created"
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Router /api/v1/admin/jobs [post]
func (h *JobHandler) CreateJob(c fiber.Ctx) error {
	var req dto.CreateJobRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	adminID, _ := middleware.GetAdminIDFromContext(c)
	result, err := h.jobFlow.CreateJob(createRequestContext(c, "/api/v1/admin/jobs"), &req, adminID, clientMetadata(c))
	if err != nil {
		log.Println("Job creation failed", err)
		return businessErrorResponse(c, err, "Failed to create job", "JOB_CREATION_FAILED")
	}

	return successResponse(c, fiber.StatusCreated, "Job created", result)
}

// ListJobs returns a page of jobs
// @Summary List Jobs
// @Tags Jobs
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListJobsResponse} "Jobs"
// @Router /api/v1/admin/jobs [get]
func (h *JobHandler) ListJobs(c fiber.Ctx) error {
	var req dto.ListJobsRequest
	if err := c.Bind().Query(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	result, err := h.jobFlow.ListJobs(createRequestContext(c, "/api/v1/admin/jobs"), &req)
	if err != nil {
		log.Println("Job listing failed", err)
		return businessErrorResponse(c, err, "Failed to list jobs", "JOB_LIST_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Jobs", result)
}

// GetJob returns one job by UUID
// @Summary Get Job
// @Tags Jobs
// @Produce json
// @Param uuid path string true "Job UUID"
// @Success 200 {object} dto.APIResponse{data=dto.JobDTO} "Job"
// @Failure 404 {object} dto.APIResponse "Job not found"
// @Router /api/v1/admin/jobs/{uuid} [get]
func (h *JobHandler) GetJob(c fiber.Ctx) error {
	jobUUID := c.Params("uuid")
	if jobUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Job UUID is required", "INVALID_REQUEST", nil)
	}

	result, err := h.jobFlow.GetJob(createRequestContext(c, "/api/v1/admin/jobs/:uuid"), jobUUID)
	if err != nil {
		return businessErrorResponse(c, err, "Failed to load job", "JOB_LOOKUP_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Job", result)
}

// UpdateJob reschedules or transitions a job
// @Summary Update Job
// @Tags Jobs
// @Accept json
// @Produce json
// @Param uuid path string true "Job UUID"
// @Param request body dto.UpdateJobRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.JobDTO} "Job updated"
// @Failure 409 {object} dto.APIResponse "Invalid transition"
// @Router /api/v1/admin/jobs/{uuid} [patch]
func (h *JobHandler) UpdateJob(c fiber.Ctx) error {
	jobUUID := c.Params("uuid")
	if jobUUID == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Job UUID is required", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateJobRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if stop, err := validateRequest(c, h.validator, &req); stop {
		return err
	}

	adminID, _ := middleware.GetAdminIDFromContext(c)
	result, err := h.jobFlow.UpdateJob(createRequestContext(c, "/api/v1/admin/jobs/:uuid"), jobUUID, &req, adminID, clientMetadata(c))
	if err != nil {
		log.Println("Job update failed", err)
		return businessErrorResponse(c, err, "Failed to update job", "JOB_UPDATE_FAILED")
	}

	return successResponse(c, fiber.StatusOK, "Job updated", result)
}
