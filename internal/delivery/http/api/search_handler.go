package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"go-scout-backend/internal/delivery/http/response"
	"go-scout-backend/internal/domain"
)

type SearchHandler struct {
	searchUC domain.SearchUsecase
}

func NewSearchHandler(protected *gin.RouterGroup, searchUC domain.SearchUsecase, g Guards) {
	handler := &SearchHandler{searchUC: searchUC}

	search := protected.Group("/search", g.Company)
	{
		search.GET("/seekers", handler.SearchSeekers)
		search.GET("/seekers/export", handler.ExportSeekers)
	}
}

// seekerFilter accepts skills both repeated and comma separated.
func seekerFilter(c *gin.Context) (domain.SeekerFilter, bool) {
	var filter domain.SeekerFilter
	if !bindQuery(c, &filter) {
		return filter, false
	}
	var skills []string
	for _, s := range filter.Skills {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				skills = append(skills, part)
			}
		}
	}
	filter.Skills = skills
	return filter, true
}

// SearchSeekers godoc
// @Summary      Search seekers
// @Description  Active seekers with an active resume, most recently updated first.
// @Tags         search
// @Produce      json
// @Param        keyword         query     string  false  "Keyword"
// @Param        prefecture      query     string  false  "Prefecture"
// @Param        min_experience  query     int     false  "Minimum experience (years)"
// @Param        max_experience  query     int     false  "Maximum experience (years)"
// @Param        skills          query     string  false  "Comma separated skills"
// @Param        page            query     int     false  "Page number"
// @Param        limit           query     int     false  "Page size"
// @Success      200             {object}  response.Response{data=domain.PaginatedResult[domain.SeekerSearchResult]}
// @Router       /search/seekers [get]
// @Security     BearerAuth
func (h *SearchHandler) SearchSeekers(c *gin.Context) {
	filter, ok := seekerFilter(c)
	if !ok {
		return
	}
	res, err := h.searchUC.SearchSeekers(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Seekers retrieved", res)
}

// ExportSeekers godoc
// @Summary      Export seeker search results
// @Tags         search
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        keyword     query  string  false  "Keyword"
// @Param        prefecture  query  string  false  "Prefecture"
// @Success      200
// @Router       /search/seekers/export [get]
// @Security     BearerAuth
func (h *SearchHandler) ExportSeekers(c *gin.Context) {
	filter, ok := seekerFilter(c)
	if !ok {
		return
	}
	filename := fmt.Sprintf("seekers_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := h.searchUC.ExportSeekers(c.Request.Context(), filter, c.Writer); err != nil {
		// Nothing was written yet; let the error envelope set its own headers.
		c.Header("Content-Type", "")
		c.Header("Content-Disposition", "")
		c.Error(err)
		return
	}
}
