package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"eventhub/internal/helpers"
	"eventhub/internal/logger"
	"eventhub/internal/middleware"
	"eventhub/internal/models"
	"eventhub/internal/queries"
)

// RSVP marks the caller as attending. Repeating the action is a no-op
// warning, never a duplicate row. The confirmation email on the first
// transition is best-effort: failures are logged and swallowed.
func RSVP(c *gin.Context) {
	eventID := c.Param("event_id")
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

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

	var user models.User
	if err := gormDB.Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	var attending int64
	gormDB.Table("rsvps").Where("event_id = ? AND user_id = ?", event.ID, user.ID).Count(&attending)
	if attending > 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": "You have already RSVP'd to this event.",
			"level":   "warning",
		})
		return
	}

	if err := gormDB.Model(&event).Association("Participants").Append(&user); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to RSVP.")
		return
	}

	if m := middleware.GetMailer(c); m != nil && user.Email != "" {
		body := fmt.Sprintf(
			"Hi %s,\n\nYou've successfully RSVP'd for '%s' on %s.",
			user.Username, event.Name, event.Date.Format("2006-01-02"),
		)
		go func(email string) {
			if err := m.Send(email, "RSVP Confirmation", body); err != nil {
				logger.New("mail").Warn("rsvp confirmation email failed", "to", email, "error", err)
			}
		}(user.Email)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "RSVP successful. A confirmation email has been sent.",
		"level":   "success",
	})
}

// CancelRSVP removes the caller's attendance. Cancelling when not
// attending is a no-op; the info message is emitted either way.
func CancelRSVP(c *gin.Context) {
	eventID := c.Param("event_id")
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

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

	var user models.User
	if err := gormDB.Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	if err := gormDB.Model(&event).Association("Participants").Delete(&user); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel RSVP.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Your RSVP has been cancelled.",
		"level":   "info",
	})
}

func MyEvents(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var events []models.Event
	err := queries.UserEvents(gormDB, userID.(string)).
		Preload("Category").
		Order("date ASC").
		Order("time_of_day ASC").
		Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
