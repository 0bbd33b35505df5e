package patient

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sunrisehealth/portal-api/internal/handler"
	"github.com/sunrisehealth/portal-api/internal/model"
	"github.com/sunrisehealth/portal-api/internal/service/roster"
	"github.com/sunrisehealth/portal-api/pkg/fileutil"
)

type Handler struct {
	service roster.RosterService
	logger  *zerolog.Logger
}

func NewHandler(service roster.RosterService, logger *zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)

		patients.POST("/:id/eligibility-checks", h.RunEligibilityCheck)
		patients.POST("/:id/treatments/:treatmentId/preauth", h.SubmitPreAuth)
	}
}

// patientSummary decorates a patient with the derived display statuses
// of its latest treatment.
type patientSummary struct {
	model.Patient
	EligibilityStatus model.EligibilityDisplayStatus `json:"eligibilityStatus"`
	PAStatus          model.PADisplayStatus          `json:"paStatus"`
}

func summarize(p model.Patient) patientSummary {
	latest := p.LatestTreatment()
	return patientSummary{
		Patient:           p,
		EligibilityStatus: model.EligibilityDisplay(latest),
		PAStatus:          model.PADisplay(latest),
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patient, err := h.service.AddPatient(c.Request.Context(), &req)
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(patient))
}

func (h *Handler) ListPatients(c *gin.Context) {
	search := c.Query("search")
	page := 1
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid page"))
			return
		}
		page = parsed
	}

	result, err := h.service.ListPatients(c.Request.Context(), search, page)
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	summaries := make([]patientSummary, 0, len(result.Items))
	for _, p := range result.Items {
		summaries = append(summaries, summarize(p))
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"items":      summaries,
		"total":      result.Total,
		"page":       result.Page,
		"pageSize":   result.PageSize,
		"totalPages": result.TotalPages,
	}))
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	patient, err := h.service.GetPatient(c.Request.Context(), id)
	if err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(summarize(*patient)))
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var patient model.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	patient.ID = id

	if err := h.service.UpdatePatient(c.Request.Context(), &patient); err != nil {
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func (h *Handler) RunEligibilityCheck(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var clinical model.Clinical
	if err := c.ShouldBindJSON(&clinical); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	treatment, err := h.service.RunEligibilityCheck(c.Request.Context(), id, clinical)
	if err != nil {
		h.logger.Error().Err(err).Int("patient_id", id).Msg("eligibility check failed")
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(treatment))
}

func (h *Handler) SubmitPreAuth(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}
	treatmentID := c.Param("treatmentId")

	fh, err := c.FormFile("document")
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("a supporting document is required"))
		return
	}

	fileName, fileType, encoded, err := fileutil.EncodeMultipart(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	doc := model.Document{
		FileName: fileName,
		FileType: fileType,
		Base64:   encoded,
	}

	treatment, err := h.service.SubmitPreAuth(c.Request.Context(), id, treatmentID, doc)
	if err != nil {
		h.logger.Error().Err(err).Int("patient_id", id).Str("treatment_id", treatmentID).Msg("pre-auth submission failed")
		c.JSON(handler.StatusFromError(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(treatment))
}
