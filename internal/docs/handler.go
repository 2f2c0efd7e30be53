package docs

import (
	"encoding/base64"
	"io"

	"flashback-backend/internal/auth"
	"flashback-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Uploads above this size are rejected before touching the database.
const maxUploadBytes = 10 << 20

// POST /api/documents/:guild_id — multipart form: file, entreprise, type.
func UploadHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")
		entreprise := c.FormValue("entreprise")
		docType := c.FormValue("type", models.DocumentTypeFacture)

		if entreprise == "" {
			return fiber.NewError(fiber.StatusBadRequest, "entreprise is required")
		}
		if docType != models.DocumentTypeFacture && docType != models.DocumentTypeDiplome {
			return fiber.NewError(fiber.StatusBadRequest, "type must be facture or diplome")
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file is required")
		}
		if fileHeader.Size > maxUploadBytes {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, "File exceeds the 10MB limit")
		}

		f, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to read upload")
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Failed to read upload")
		}

		uploadedBy, err := auth.DiscordID(c)
		if err != nil {
			return err
		}
		doc := models.Document{
			ID:           uuid.NewString(),
			GuildID:      guildID,
			Entreprise:   entreprise,
			Filename:     fileHeader.Filename,
			ContentType:  fileHeader.Header.Get("Content-Type"),
			Size:         fileHeader.Size,
			FileData:     data,
			UploadedBy:   uploadedBy,
			DocumentType: docType,
		}
		if err := db.Create(&doc).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to store document")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "document": doc})
	}
}

// GET /api/documents/:guild_id?entreprise=X&type=facture
// Metadata only; file bytes stay out of list responses.
func ListHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")

		q := db.Where("guild_id = ?", guildID)
		if entreprise := c.Query("entreprise"); entreprise != "" {
			q = q.Where("entreprise = ?", entreprise)
		}
		if docType := c.Query("type"); docType != "" {
			q = q.Where("document_type = ?", docType)
		}

		docs := []models.Document{}
		if err := q.Order("created_at DESC").Find(&docs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load documents")
		}
		return c.JSON(fiber.Map{"documents": docs, "count": len(docs)})
	}
}

// GET /api/documents/:guild_id/:id
// The guild in the path must own the document; a match on id alone is not
// enough.
func DownloadHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")
		id := c.Params("id")

		var doc models.Document
		if err := db.Where("id = ? AND guild_id = ?", id, guildID).First(&doc).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Document not found")
		}

		return c.JSON(fiber.Map{
			"id":           doc.ID,
			"filename":     doc.Filename,
			"content_type": doc.ContentType,
			"size":         doc.Size,
			"file_data":    base64.StdEncoding.EncodeToString(doc.FileData),
		})
	}
}

// DELETE /api/documents/:guild_id/:id
func DeleteHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		guildID := c.Params("guild_id")
		id := c.Params("id")

		res := db.Where("id = ? AND guild_id = ?", id, guildID).Delete(&models.Document{})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete document")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Document not found")
		}
		return c.JSON(fiber.Map{"success": true, "message": "Document deleted"})
	}
}
