package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"eventhub/internal/helpers"
	"eventhub/internal/models"
	"eventhub/internal/queries"
)

func Dashboard(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	today := helpers.DateOf(time.Now())
	summary, err := queries.Dashboard(gormDB, today)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error computing dashboard.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_events":       summary.TotalEvents,
		"upcoming_events":    summary.UpcomingEvents,
		"past_events":        summary.PastEvents,
		"total_participants": summary.TotalParticipants,
		"todays_events":      summary.TodaysEvents,
		"today":              today.Format("2006-01-02"),
	})
}

// DashboardStats answers filter=all|upcoming|past with at most the 50
// nearest events by ascending date.
func DashboardStats(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	filterType := c.DefaultQuery("filter", "all")
	today := helpers.DateOf(time.Now())

	var events []models.Event
	query := queries.FilteredEvents(gormDB, queries.EventFilter{})
	query = queries.TimeWindow(query, filterType, today)
	err := query.Preload("Category").Order("date ASC").Limit(50).Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving stats.")
		return
	}

	data := make([]gin.H, 0, len(events))
	for _, e := range events {
		categoryName := ""
		if e.Category != nil {
			categoryName = e.Category.Name
		}
		status := "past"
		if !e.Date.Before(today) {
			status = "upcoming"
		}
		data = append(data, gin.H{
			"id":               e.ID,
			"name":             e.Name,
			"date":             e.Date.Format("2006-01-02"),
			"time":             e.TimeOfDay,
			"location":         e.Location,
			"category":         categoryName,
			"num_participants": e.ParticipantCount,
			"status":           status,
		})
	}

	c.JSON(http.StatusOK, gin.H{"events": data})
}
