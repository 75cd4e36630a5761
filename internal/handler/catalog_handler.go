package handler

import (
	"workspace-access/internal/catalog"
	"workspace-access/pkg/response"

	"github.com/gin-gonic/gin"
)

// CatalogResponse lists the modules and permissions that can be granted.
type CatalogResponse struct {
	Modules []catalog.Module `json:"modules"`
}

// CatalogHandler serves the module catalog.
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// ListModules godoc
// @Summary      List grantable modules
// @Description  Modules and their permissions, in catalog order
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response.Response{data=CatalogResponse}
// @Security     BearerAuth
// @Router       /catalog [get]
func (h *CatalogHandler) ListModules(c *gin.Context) {
	response.Success(c, CatalogResponse{Modules: h.catalog.Modules()})
}
