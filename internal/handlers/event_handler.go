package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventhub/internal/helpers"
	"eventhub/internal/logger"
	"eventhub/internal/middleware"
	"eventhub/internal/models"
	"eventhub/internal/queries"
)

// eventForm carries the validated form fields shared by create and
// edit. Validation failures are collected per field so the submitter
// can fix the form; nothing is persisted when any field fails.
type eventForm struct {
	Name        string
	Description string
	Date        time.Time
	TimeOfDay   string
	Location    string
	CategoryID  *uuid.UUID
}

func parseEventForm(c *gin.Context, gormDB *gorm.DB) (*eventForm, map[string]string) {
	form := &eventForm{}
	fieldErrors := map[string]string{}

	form.Name = strings.TrimSpace(c.PostForm("name"))
	if form.Name == "" {
		fieldErrors["name"] = "Event name cannot be empty"
	}

	form.Description = c.PostForm("description")
	form.Location = c.PostForm("location")

	dateStr := c.PostForm("date")
	if dateStr == "" {
		fieldErrors["date"] = "Date is required"
	} else {
		date, err := helpers.ParseDate(dateStr)
		if err != nil {
			fieldErrors["date"] = err.Error()
		} else {
			form.Date = date
		}
	}

	if timeStr := c.PostForm("time"); timeStr != "" {
		timeOfDay, err := helpers.ParseTimeOfDay(timeStr)
		if err != nil {
			fieldErrors["time"] = err.Error()
		} else {
			form.TimeOfDay = timeOfDay
		}
	}

	if categoryStr := c.PostForm("category"); categoryStr != "" {
		categoryID, err := uuid.Parse(categoryStr)
		if err != nil {
			fieldErrors["category"] = "Invalid category."
		} else {
			var category models.Category
			if err := gormDB.Where("id = ?", categoryID).First(&category).Error; err != nil {
				fieldErrors["category"] = "Invalid category."
			} else {
				form.CategoryID = &categoryID
			}
		}
	}

	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}
	return form, nil
}

func ListEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	pageNum, err := helpers.StringToInt(c.DefaultQuery("page", "1"))
	if err != nil || pageNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}
	limitNum, err := helpers.StringToInt(c.DefaultQuery("limit", "20"))
	if err != nil || limitNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	filter := queries.EventFilter{
		Search:     c.Query("search"),
		CategoryID: c.Query("category"),
	}
	if filter.CategoryID != "" {
		if _, err := uuid.Parse(filter.CategoryID); err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid category id.")
			return
		}
	}
	if startDate := c.Query("start_date"); startDate != "" {
		date, err := helpers.ParseDate(startDate)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid start date.")
			return
		}
		filter.DateFrom = &date
	}
	if endDate := c.Query("end_date"); endDate != "" {
		date, err := helpers.ParseDate(endDate)
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid end date.")
			return
		}
		filter.DateTo = &date
	}

	totalCount, err := queries.EventCount(gormDB, filter)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	var events []models.Event
	offset := (pageNum - 1) * limitNum
	err = queries.FilteredEvents(gormDB, filter).
		Preload("Category").
		Order("date DESC").
		Order("name ASC").
		Offset(offset).
		Limit(limitNum).
		Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":      events,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	err := gormDB.Model(&models.Event{}).
		Select("events.*, (SELECT COUNT(*) FROM rsvps WHERE rsvps.event_id = events.id) AS participant_count").
		Preload("Category").
		Preload("Participants").
		Where("events.id = ?", eventID).
		First(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func CreateEvent(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	form, fieldErrors := parseEventForm(c, gormDB)
	if fieldErrors != nil {
		helpers.RespondWithValidationError(c, fieldErrors)
		return
	}

	cfg := middleware.GetConfig(c)
	if cfg == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Configuration not found.")
		return
	}

	event := models.Event{
		Name:        form.Name,
		Description: form.Description,
		Date:        form.Date,
		TimeOfDay:   form.TimeOfDay,
		Location:    form.Location,
		CategoryID:  form.CategoryID,
		ImagePath:   cfg.DefaultEventImage,
	}

	imageFile, err := c.FormFile("image")
	if err == nil {
		imagePath, err := helpers.UploadFile(c, imageFile, cfg.UploadBasePath, "events")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		event.ImagePath = imagePath
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

func UpdateEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	form, fieldErrors := parseEventForm(c, gormDB)
	if fieldErrors != nil {
		helpers.RespondWithValidationError(c, fieldErrors)
		return
	}

	event.Name = form.Name
	event.Description = form.Description
	event.Date = form.Date
	event.TimeOfDay = form.TimeOfDay
	event.Location = form.Location
	event.CategoryID = form.CategoryID

	imageFile, err := c.FormFile("image")
	if err == nil {
		cfg := middleware.GetConfig(c)
		if cfg == nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Configuration not found.")
			return
		}
		imagePath, err := helpers.UploadFile(c, imageFile, cfg.UploadBasePath, "events")
		if err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		if event.ImagePath != "" && event.ImagePath != cfg.DefaultEventImage {
			if err := helpers.DeleteFile(event.ImagePath); err != nil {
				logger.New("uploads").Warn("failed to delete old event image", "path", event.ImagePath, "error", err)
			}
		}
		event.ImagePath = imagePath
	}

	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func DeleteEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding event.")
		return
	}

	// RSVP rows live only as long as the event does.
	if err := gormDB.Model(&event).Association("Participants").Clear(); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	if err := gormDB.Delete(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}
