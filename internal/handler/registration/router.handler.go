package registration

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	drafts := e.Group("/v1/registration/:flow/drafts")

	drafts.POST("", h.CreateDraft)
	drafts.GET("/:id", h.GetDraft)
	drafts.PATCH("/:id", h.UpdateDraft)
	drafts.POST("/:id/next", h.Next)
	drafts.POST("/:id/back", h.Back)
	drafts.POST("/:id/prefill-address", h.PrefillAddress)
	drafts.POST("/:id/submit", h.Submit)

	e.GET("/v1/address/cep/:cep", h.LookupCEP)
	e.POST("/v1/address/validate", h.ValidateAddress)
}
