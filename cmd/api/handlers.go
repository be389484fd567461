package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/commerce-platform/inventory-service/internal/application"
	"github.com/commerce-platform/inventory-service/pkg/api"
	apperrors "github.com/commerce-platform/inventory-service/pkg/errors"
)

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		_ = c.Error(apperrors.ErrValidation("invalid " + name + " path parameter"))
		return 0, false
	}
	return id, true
}

func listFlatHandler(service *application.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := application.FlatListQuery{
			Search:     c.Query("search"),
			LowStock:   c.Query("lowStock") == "true",
			OutOfStock: c.Query("outOfStock") == "true",
			Page:       api.ParsePagination(c),
		}
		if raw := c.Query("locationId"); raw != "" {
			locationID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				_ = c.Error(apperrors.ErrValidation("invalid locationId query parameter"))
				return
			}
			query.LocationID = &locationID
		}

		page, err := service.ListFlat(c.Request.Context(), query)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func listManagementHandler(service *application.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := c.DefaultQuery("filter", application.FilterAll)
		switch filter {
		case application.FilterAll, application.FilterLowStock, application.FilterOutOfStock:
		default:
			_ = c.Error(apperrors.ErrValidation("filter must be one of all, low-stock, out-of-stock"))
			return
		}

		page, err := service.ListManagement(c.Request.Context(), c.Query("search"), filter, api.ParsePagination(c))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func listLocationsHandler(service *application.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		locations, err := service.ListLocations(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": locations})
	}
}

func listLowStockHandler(service *application.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := service.ListLowStock(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": records})
	}
}

func listOutOfStockHandler(service *application.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := service.ListOutOfStock(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": records})
	}
}

func getAvailabilityHandler(service *application.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID, ok := pathID(c, "variantId")
		if !ok {
			return
		}

		availability, err := service.GetAvailability(c.Request.Context(), variantID)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, availability)
	}
}

func getVariantRecordsHandler(service *application.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID, ok := pathID(c, "variantId")
		if !ok {
			return
		}

		records, err := service.GetVariantRecords(c.Request.Context(), variantID)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": records})
	}
}

func getVariantDetailHandler(service *application.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID, ok := pathID(c, "variantId")
		if !ok {
			return
		}

		detail, err := service.GetVariantDetail(c.Request.Context(), variantID)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

func getCommittedOrdersHandler(service *application.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID, ok := pathID(c, "variantId")
		if !ok {
			return
		}

		orders, err := service.ListCommittedOrders(c.Request.Context(), variantID)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": orders})
	}
}

func updateVariantPrimaryHandler(service *application.InventoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID, ok := pathID(c, "variantId")
		if !ok {
			return
		}

		var input application.UpdateVariantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			_ = c.Error(apperrors.ErrValidation(err.Error()))
			return
		}

		record, err := service.UpdateVariantPrimary(c.Request.Context(), variantID, input)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func updateVariantLocationHandler(service *application.InventoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID, ok := pathID(c, "variantId")
		if !ok {
			return
		}
		locationID, ok := pathID(c, "locationId")
		if !ok {
			return
		}

		var input application.UpdateVariantInput
		if err := c.ShouldBindJSON(&input); err != nil {
			_ = c.Error(apperrors.ErrValidation(err.Error()))
			return
		}

		record, err := service.UpdateVariantLocation(c.Request.Context(), variantID, locationID, input)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func updateRecordHandler(service *application.InventoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		recordID, ok := pathID(c, "id")
		if !ok {
			return
		}

		var input application.UpdateRecordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			_ = c.Error(apperrors.ErrValidation(err.Error()))
			return
		}

		record, err := service.UpdateRecord(c.Request.Context(), recordID, input)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func listMovementsHandler(service *application.QueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		recordID, ok := pathID(c, "id")
		if !ok {
			return
		}

		page, err := service.ListMovements(c.Request.Context(), recordID, api.ParsePagination(c))
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func createMovementHandler(service *application.InventoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input application.CreateMovementInput
		if err := c.ShouldBindJSON(&input); err != nil {
			_ = c.Error(apperrors.ErrValidation(err.Error()))
			return
		}

		result, err := service.CreateMovement(c.Request.Context(), input)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

func bulkAdjustHandler(service *application.BulkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input application.BulkAdjustInput
		if err := c.ShouldBindJSON(&input); err != nil {
			_ = c.Error(apperrors.ErrValidation(err.Error()))
			return
		}

		records, err := service.BulkAdjust(c.Request.Context(), input)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": records})
	}
}

func bulkMovementHandler(service *application.BulkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input application.BulkMovementInput
		if err := c.ShouldBindJSON(&input); err != nil {
			_ = c.Error(apperrors.ErrValidation(err.Error()))
			return
		}

		results, err := service.BulkMovement(c.Request.Context(), input)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": results})
	}
}

func bulkTransferHandler(service *application.BulkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input application.BulkTransferInput
		if err := c.ShouldBindJSON(&input); err != nil {
			_ = c.Error(apperrors.ErrValidation(err.Error()))
			return
		}

		results, err := service.BulkTransfer(c.Request.Context(), input)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": results})
	}
}

func syncHandler(service *application.ImportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sku := c.Param("sku")
		service.StartImport(sku)
		c.JSON(http.StatusAccepted, gin.H{
			"status": "import started",
			"sku":    sku,
		})
	}
}
