package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/doggofresh/backend/internal/middleware"
	"github.com/doggofresh/backend/internal/models"
	"github.com/doggofresh/backend/internal/service"
	"github.com/doggofresh/backend/internal/store"
)

// PetPhotoUploader stores a pet photo under its owner. May be nil when
// media storage is not configured.
type PetPhotoUploader interface {
	UploadPetPhoto(ctx context.Context, userID, petID, base64Data, mimeType string) (string, error)
}

// PetsHandler serves the pets account page.
type PetsHandler struct {
	accounts *service.AccountService
	uploader PetPhotoUploader
	logger   *zap.Logger
}

// NewPetsHandler creates a new PetsHandler instance. uploader may be nil.
func NewPetsHandler(accounts *service.AccountService, uploader PetPhotoUploader, logger *zap.Logger) *PetsHandler {
	return &PetsHandler{accounts: accounts, uploader: uploader, logger: logger}
}

// RegisterRoutes registers the pet routes on an authenticated group
func (h *PetsHandler) RegisterRoutes(router *gin.RouterGroup) {
	pets := router.Group("/pets")
	{
		pets.GET("", h.List)
		pets.POST("", h.Create)
		pets.PUT("/:id", h.Update)
		pets.DELETE("/:id", h.Delete)
	}
}

func (h *PetsHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	pets, err := h.accounts.ListPets(c.Request.Context(), userID)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pets": pets})
}

type PetRequest struct {
	Name          string  `json:"name" binding:"required"`
	Breed         string  `json:"breed" binding:"required"`
	Age           int     `json:"age" binding:"min=0"`
	Weight        float64 `json:"weight" binding:"gt=0"`
	Photo         string  `json:"photo,omitempty"`
	PhotoMimeType string  `json:"photoMimeType,omitempty"`
}

func (h *PetsHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req PetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida."})
		return
	}

	pet, err := h.accounts.AddPet(c.Request.Context(), userID, models.Pet{
		Name:   req.Name,
		Breed:  req.Breed,
		Age:    req.Age,
		Weight: req.Weight,
	})
	if err != nil {
		h.storeError(c, err)
		return
	}

	// The photo needs the pet id as its storage key, so it is uploaded
	// after the create and patched in. Upload failures keep the pet.
	if h.uploader != nil && req.Photo != "" {
		if updated := h.attachPhoto(c, userID, pet.ID, req.Photo, req.PhotoMimeType); updated != nil {
			pet = updated
		}
	}
	c.JSON(http.StatusCreated, pet)
}

// attachPhoto uploads the photo and writes its URL onto the pet document.
// Best-effort: on any failure it logs and returns nil.
func (h *PetsHandler) attachPhoto(c *gin.Context, userID, petID, base64Data, mimeType string) *models.Pet {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	url, err := h.uploader.UploadPetPhoto(c.Request.Context(), userID, petID, base64Data, mimeType)
	if err != nil {
		h.logger.Warn("pet photo upload failed",
			zap.String("pet_id", petID), zap.Error(err))
		return nil
	}
	pet, err := h.accounts.UpdatePet(c.Request.Context(), userID, petID, map[string]any{"photoUrl": url})
	if err != nil {
		h.logger.Warn("failed to record pet photo url",
			zap.String("pet_id", petID), zap.Error(err))
		return nil
	}
	return pet
}

func (h *PetsHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida."})
		return
	}

	// Raw image data never lands in the document store. A photo in the
	// patch is uploaded and replaced by its URL.
	photo, _ := fields["photo"].(string)
	mimeType, _ := fields["photoMimeType"].(string)
	delete(fields, "photo")
	delete(fields, "photoMimeType")

	pet, err := h.accounts.UpdatePet(c.Request.Context(), userID, c.Param("id"), fields)
	if err != nil {
		h.storeError(c, err)
		return
	}

	if h.uploader != nil && photo != "" {
		if updated := h.attachPhoto(c, userID, pet.ID, photo, mimeType); updated != nil {
			pet = updated
		}
	}
	c.JSON(http.StatusOK, pet)
}

func (h *PetsHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.accounts.DeletePet(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PetsHandler) storeError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No encontrado."})
		return
	}
	h.logger.Error("pets request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Ocurrió un error en el servidor."})
}
