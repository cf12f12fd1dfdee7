package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-scout-backend/config"
	"go-scout-backend/internal/delivery/http/response"
	"go-scout-backend/internal/domain"
)

type ResumeHandler struct {
	resumeUC     domain.ResumeUsecase
	annotationUC domain.AnnotationUsecase
}

func NewResumeHandler(protected *gin.RouterGroup, resumeUC domain.ResumeUsecase, annotationUC domain.AnnotationUsecase, g Guards) {
	handler := &ResumeHandler{resumeUC: resumeUC, annotationUC: annotationUC}

	resumes := protected.Group("/resumes")
	{
		resumes.GET("", g.Seeker, handler.List)
		resumes.POST("", g.Seeker, handler.Create)
		resumes.GET("/:id", handler.Get)
		resumes.PUT("/:id", g.Seeker, handler.Update)
		resumes.DELETE("/:id", g.Seeker, handler.Delete)
		resumes.POST("/:id/activate", g.Seeker, handler.Activate)
		resumes.POST("/:id/submit", g.Seeker, handler.Submit)
		resumes.GET("/:id/pdf", g.Limit(config.ActionPDFDownload), handler.PDF)
		resumes.POST("/:id/pdf/email", g.Seeker, g.Limit(config.ActionPDFEmail), handler.EmailPDF)
		resumes.GET("/:id/annotations", handler.ListAnnotations)
		resumes.POST("/:id/annotations", handler.CreateAnnotation)
	}

	protected.POST("/annotations/:id/resolve", handler.ResolveAnnotation)
}

// List godoc
// @Summary      List own resumes
// @Tags         resumes
// @Produce      json
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response{data=domain.PaginatedResult[domain.Resume]}
// @Router       /resumes [get]
// @Security     BearerAuth
func (h *ResumeHandler) List(c *gin.Context) {
	userID, _ := caller(c)
	resumes, err := h.resumeUC.List(c.Request.Context(), userID, pageFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resumes retrieved", resumes)
}

// Create godoc
// @Summary      Create a resume
// @Description  The first resume of a seeker becomes active.
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ResumeInput  true  "Resume"
// @Success      201   {object}  response.Response{data=domain.Resume}
// @Failure      400   {object}  response.Response
// @Router       /resumes [post]
// @Security     BearerAuth
func (h *ResumeHandler) Create(c *gin.Context) {
	var req domain.ResumeInput
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := caller(c)
	r, err := h.resumeUC.Create(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Resume created", r)
}

// Get godoc
// @Summary      Get a resume
// @Description  Owners and admins always; companies only when the seeker applied to or was scouted by them.
// @Tags         resumes
// @Produce      json
// @Param        id   path      string  true  "Resume ID"
// @Success      200  {object}  response.Response{data=domain.Resume}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /resumes/{id} [get]
// @Security     BearerAuth
func (h *ResumeHandler) Get(c *gin.Context) {
	userID, role := caller(c)
	r, err := h.resumeUC.Get(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume retrieved", r)
}

// Update godoc
// @Summary      Replace a resume
// @Description  The experience list is replaced as a whole.
// @Tags         resumes
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Resume ID"
// @Param        body  body      domain.ResumeInput  true  "Resume"
// @Success      200   {object}  response.Response{data=domain.Resume}
// @Router       /resumes/{id} [put]
// @Security     BearerAuth
func (h *ResumeHandler) Update(c *gin.Context) {
	var req domain.ResumeInput
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := caller(c)
	r, err := h.resumeUC.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume updated", r)
}

// Delete godoc
// @Summary      Delete a resume
// @Tags         resumes
// @Param        id   path      string  true  "Resume ID"
// @Success      200  {object}  response.Response
// @Router       /resumes/{id} [delete]
// @Security     BearerAuth
func (h *ResumeHandler) Delete(c *gin.Context) {
	userID, _ := caller(c)
	if err := h.resumeUC.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume deleted", nil)
}

// Activate godoc
// @Summary      Make a resume the active one
// @Tags         resumes
// @Param        id   path      string  true  "Resume ID"
// @Success      200  {object}  response.Response{data=domain.Resume}
// @Router       /resumes/{id}/activate [post]
// @Security     BearerAuth
func (h *ResumeHandler) Activate(c *gin.Context) {
	userID, _ := caller(c)
	r, err := h.resumeUC.Activate(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume activated", r)
}

// Submit godoc
// @Summary      Mark a resume as submitted
// @Tags         resumes
// @Param        id   path      string  true  "Resume ID"
// @Success      200  {object}  response.Response{data=domain.Resume}
// @Router       /resumes/{id}/submit [post]
// @Security     BearerAuth
func (h *ResumeHandler) Submit(c *gin.Context) {
	userID, _ := caller(c)
	r, err := h.resumeUC.Submit(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Resume submitted", r)
}

// PDF godoc
// @Summary      Signed download link for the rendered PDF
// @Tags         resumes
// @Param        id   path      string  true  "Resume ID"
// @Success      200  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /resumes/{id}/pdf [get]
// @Security     BearerAuth
func (h *ResumeHandler) PDF(c *gin.Context) {
	userID, role := caller(c)
	url, err := h.resumeUC.PDFDownloadURL(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Download link created", gin.H{"url": url})
}

// EmailPDF godoc
// @Summary      Email the PDF download link to the owner
// @Tags         resumes
// @Param        id   path      string  true  "Resume ID"
// @Success      202  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /resumes/{id}/pdf/email [post]
// @Security     BearerAuth
func (h *ResumeHandler) EmailPDF(c *gin.Context) {
	userID, _ := caller(c)
	if err := h.resumeUC.EmailPDFLink(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusAccepted, "Email queued", nil)
}

// ListAnnotations godoc
// @Summary      List review comments on a resume
// @Tags         annotations
// @Param        id     path      string  true   "Resume ID"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  response.Response{data=domain.PaginatedResult[domain.Annotation]}
// @Router       /resumes/{id}/annotations [get]
// @Security     BearerAuth
func (h *ResumeHandler) ListAnnotations(c *gin.Context) {
	userID, role := caller(c)
	items, err := h.annotationUC.List(c.Request.Context(), userID, role, c.Param("id"), pageFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Annotations retrieved", items)
}

// CreateAnnotation godoc
// @Summary      Add a review comment anchored to a resume range
// @Tags         annotations
// @Accept       json
// @Param        id    path      string                  true  "Resume ID"
// @Param        body  body      domain.AnnotationInput  true  "Annotation"
// @Success      201   {object}  response.Response{data=domain.Annotation}
// @Router       /resumes/{id}/annotations [post]
// @Security     BearerAuth
func (h *ResumeHandler) CreateAnnotation(c *gin.Context) {
	var req domain.AnnotationInput
	if !bindJSON(c, &req) {
		return
	}
	userID, role := caller(c)
	a, err := h.annotationUC.Create(c.Request.Context(), userID, role, c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Annotation created", a)
}

// ResolveAnnotation godoc
// @Summary      Resolve a review comment
// @Tags         annotations
// @Param        id   path      string  true  "Annotation ID"
// @Success      200  {object}  response.Response{data=domain.Annotation}
// @Router       /annotations/{id}/resolve [post]
// @Security     BearerAuth
func (h *ResumeHandler) ResolveAnnotation(c *gin.Context) {
	userID, role := caller(c)
	a, err := h.annotationUC.Resolve(c.Request.Context(), userID, role, c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Annotation resolved", a)
}
