package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/SmartDevNG/smartdev_api/internal/catalog"
	"github.com/SmartDevNG/smartdev_api/internal/models"
)

// CatalogHandler serves the read-only storefront catalog. Unknown services
// and providers produce empty lists, not errors.
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// GetServices handles GET /v1/catalog/services.
func (h *CatalogHandler) GetServices(c *gin.Context) {
	respondOK(c, "Services retrieved successfully", gin.H{
		"services": h.catalog.Services(),
	})
}

// GetProviders handles GET /v1/catalog/:service/providers.
func (h *CatalogHandler) GetProviders(c *gin.Context) {
	service := serviceParam(c)
	respondOK(c, "Providers retrieved successfully", gin.H{
		"service":   service,
		"providers": toProviderViews(h.catalog.ProvidersFor(service)),
	})
}

// GetProducts handles GET /v1/catalog/:service/providers/:providerId/products.
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	service := serviceParam(c)
	respondOK(c, "Products retrieved successfully", gin.H{
		"service":    service,
		"providerId": c.Param("providerId"),
		"products":   h.catalog.ProductsFor(service, c.Param("providerId")),
	})
}

// GetDenominations handles GET /v1/catalog/:service/denominations.
func (h *CatalogHandler) GetDenominations(c *gin.Context) {
	service := serviceParam(c)
	respondOK(c, "Denominations retrieved successfully", gin.H{
		"service":       service,
		"denominations": h.catalog.DenominationsFor(service),
	})
}

// GetMeterTypes handles GET /v1/catalog/meter-types.
func (h *CatalogHandler) GetMeterTypes(c *gin.Context) {
	respondOK(c, "Meter types retrieved successfully", gin.H{
		"meterTypes": h.catalog.MeterTypes(),
	})
}

// serviceParam parses :service leniently; unknown names pass through and
// simply match nothing in the catalog.
func serviceParam(c *gin.Context) models.Service {
	if s, ok := models.ParseService(c.Param("service")); ok {
		return s
	}
	return models.Service(c.Param("service"))
}
