package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	serviceRepo "slotify/database/repository/service"
	"slotify/models"
	"slotify/utils"
)

// ServiceHandler manages a practitioner's bookable services.
type ServiceHandler struct {
	Services serviceRepo.ServiceRepository
	Logger   *zap.Logger
}

func NewServiceHandler(services serviceRepo.ServiceRepository, logger *zap.Logger) *ServiceHandler {
	return &ServiceHandler{Services: services, Logger: logger}
}

func (h *ServiceHandler) CreateService(c *gin.Context) {
	var svc models.Service
	if err := c.ShouldBindJSON(&svc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	svc.PractitionerID = c.Param("practitionerID")
	svc.IsActive = true
	if err := svc.Validate(); err != nil {
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid service", err.Error())
		return
	}

	if err := h.Services.Create(c.Request.Context(), &svc); err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "failed to create service", err.Error())
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) ListServices(c *gin.Context) {
	activeOnly := c.Query("all") == ""
	services, err := h.Services.ListByPractitioner(c.Request.Context(), c.Param("practitionerID"), activeOnly)
	if err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "failed to list services", err.Error())
		return
	}
	if services == nil {
		services = []models.Service{}
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// DeactivateService stops new bookings for a service. Existing bookings
// keep their snapshotted duration and are unaffected.
func (h *ServiceHandler) DeactivateService(c *gin.Context) {
	id := c.Param("serviceID")
	if err := h.Services.SetActive(c.Request.Context(), id, false); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.JSONError(c, http.StatusNotFound, "service not found", id)
			return
		}
		utils.JSONError(c, http.StatusServiceUnavailable, "failed to deactivate service", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "isActive": false})
}
