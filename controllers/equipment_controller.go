package controllers

import (
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"fitplan/services"
	"fitplan/utils"

	"github.com/gin-gonic/gin"
)

type EquipmentController struct {
	svc *services.EquipmentService
}

func NewEquipmentController(svc *services.EquipmentService) *EquipmentController {
	return &EquipmentController{svc: svc}
}

func (ctl *EquipmentController) GetAllEquipment(c *gin.Context) {
	equipment, err := ctl.svc.GetAllEquipment()
	if err != nil {
		c.JSON(utils.StatusOf(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": equipment})
}

func (ctl *EquipmentController) ScanEquipment(c *gin.Context) {
	start := time.Now()

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No images uploaded"})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		files = form.File["image"]
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No images uploaded"})
		return
	}

	images := make([]services.ScanImage, 0, len(files))
	for _, fh := range files {
		contentType := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Not an image! Please upload only images."})
			return
		}
		data, err := readUpload(fh)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		images = append(images, services.ScanImage{Data: data, MimeType: contentType})
	}

	log.Printf("Scanning %d equipment images...", len(images))

	detected, err := ctl.svc.ScanEquipment(c.Request.Context(), images)
	if err != nil {
		c.JSON(utils.StatusOf(err), gin.H{"error": err.Error()})
		return
	}

	log.Printf("Scan completed in %s. Detected %d items.", time.Since(start), len(detected))

	c.JSON(http.StatusOK, gin.H{"detected_equipment": detected})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

type AddEquipmentInput struct {
	EquipmentIDs []uint `json:"equipment_ids" binding:"required"`
}

func (ctl *EquipmentController) AddUserEquipment(c *gin.Context) {
	userID := c.GetUint("userID")

	var input AddEquipmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.svc.AddUserEquipment(userID, input.EquipmentIDs); err != nil {
		c.JSON(utils.StatusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Equipment added to profile"})
}

func (ctl *EquipmentController) GetUserEquipment(c *gin.Context) {
	userID := c.GetUint("userID")

	equipment, err := ctl.svc.GetUserEquipment(userID)
	if err != nil {
		c.JSON(utils.StatusOf(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"equipment": equipment})
}
