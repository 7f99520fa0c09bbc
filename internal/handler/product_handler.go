package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sellscout/sellscout-backend-go/internal/middleware"
	"github.com/sellscout/sellscout-backend-go/internal/models"
	"github.com/sellscout/sellscout-backend-go/internal/repository"
	"github.com/sellscout/sellscout-backend-go/internal/service"
	"github.com/sellscout/sellscout-backend-go/pkg/response"
)

// maxImportSize bounds uploaded CSV files to 8 MiB
const maxImportSize = 8 << 20

// ProductHandler handles HTTP requests for product candidates
type ProductHandler struct {
	products *service.ProductService
	imports  *service.ImportService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *service.ProductService, imports *service.ImportService) *ProductHandler {
	return &ProductHandler{products: products, imports: imports}
}

// List returns all products for the authenticated user, scored
// GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.List(middleware.UserID(c))
	if err != nil {
		response.InternalError(c, "Failed to load products")
		return
	}

	response.Success(c, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// Create adds a new product candidate
// POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.products.Create(middleware.UserID(c), &req)
	if err != nil {
		response.InternalError(c, "Failed to create product")
		return
	}

	response.Success(c, product)
}

// Update modifies fields of an existing product
// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.products.Update(middleware.UserID(c), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		response.InternalError(c, "Failed to update product")
		return
	}

	response.Success(c, product)
}

// Delete removes a product
// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.products.Delete(middleware.UserID(c), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		response.InternalError(c, "Failed to delete product")
		return
	}

	response.Success(c, gin.H{"deleted": id})
}

// Clear removes all of the user's products
// POST /api/v1/products/clear
func (h *ProductHandler) Clear(c *gin.Context) {
	deleted, err := h.products.Clear(middleware.UserID(c))
	if err != nil {
		response.InternalError(c, "Failed to clear products")
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}

// Stats returns the detailed statistics payload for the user's products
// GET /api/v1/stats
func (h *ProductHandler) Stats(c *gin.Context) {
	stats, err := h.products.DetailedStats(middleware.UserID(c))
	if err != nil {
		response.InternalError(c, "Failed to compute statistics")
		return
	}

	response.Success(c, stats)
}

// Overview returns the dashboard overview
// GET /api/v1/products/overview
func (h *ProductHandler) Overview(c *gin.Context) {
	overview, err := h.products.Overview(middleware.UserID(c))
	if err != nil {
		response.InternalError(c, "Failed to build overview")
		return
	}

	response.Success(c, overview)
}

// Import ingests a CSV export of product research data
// POST /api/v1/products/import
func (h *ProductHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "A CSV file is required in the 'file' field")
		return
	}
	defer file.Close()

	if header.Size > maxImportSize {
		response.Error(c, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	imported, err := h.imports.ImportCSV(middleware.UserID(c), file)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"imported": imported,
		"filename": header.Filename,
	})
}
