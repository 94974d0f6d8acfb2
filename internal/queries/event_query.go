package queries

import (
	"strings"
	"time"

	"eventhub/internal/models"
	"gorm.io/gorm"
)

// participantCountSelect annotates each event row with its RSVP count.
const participantCountSelect = "events.*, (SELECT COUNT(*) FROM rsvps WHERE rsvps.event_id = events.id) AS participant_count"

// EventFilter holds the optional list filters. Filters combine with
// AND; the free-text search matches name OR location, case-insensitive.
type EventFilter struct {
	Search     string
	CategoryID string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// FilteredEvents builds the annotated, filtered event query. Callers
// add ordering and limits per listing context.
func FilteredEvents(db *gorm.DB, filter EventFilter) *gorm.DB {
	return applyFilters(db.Model(&models.Event{}).Select(participantCountSelect), filter)
}

// EventCount counts events matching the filter. The count runs on a
// plain chain so the annotation select never reaches COUNT().
func EventCount(db *gorm.DB, filter EventFilter) (int64, error) {
	var count int64
	err := applyFilters(db.Model(&models.Event{}), filter).Count(&count).Error
	return count, err
}

func applyFilters(query *gorm.DB, filter EventFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(location) LIKE ?)", pattern, pattern)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}

	return query
}

// TimeWindow restricts a query to upcoming (date >= today) or past
// (date < today) events. Any other filter value leaves the query as is.
func TimeWindow(query *gorm.DB, filterType string, today time.Time) *gorm.DB {
	switch filterType {
	case "upcoming":
		return query.Where("date >= ?", today)
	case "past":
		return query.Where("date < ?", today)
	}
	return query
}

// UserEvents lists the events a user has RSVP'd to, annotated with
// participant counts.
func UserEvents(db *gorm.DB, userID string) *gorm.DB {
	return db.Model(&models.Event{}).
		Select(participantCountSelect).
		Where("events.id IN (SELECT event_id FROM rsvps WHERE user_id = ?)", userID)
}

// CategoriesWithCounts annotates each category with the number of
// events referencing it.
func CategoriesWithCounts(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Category{}).
		Select("categories.*, (SELECT COUNT(*) FROM events WHERE events.category_id = categories.id) AS event_count")
}

type DashboardSummary struct {
	TotalEvents       int64          `json:"total_events"`
	UpcomingEvents    int64          `json:"upcoming_events"`
	PastEvents        int64          `json:"past_events"`
	TotalParticipants int64          `json:"total_participants"`
	TodaysEvents      []models.Event `json:"todays_events"`
}

// Dashboard recomputes all aggregates from the current snapshot. No
// caching; every request pays the full query cost.
func Dashboard(db *gorm.DB, today time.Time) (*DashboardSummary, error) {
	var summary DashboardSummary

	if err := db.Model(&models.Event{}).Count(&summary.TotalEvents).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Event{}).Where("date > ?", today).Count(&summary.UpcomingEvents).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Event{}).Where("date < ?", today).Count(&summary.PastEvents).Error; err != nil {
		return nil, err
	}

	// Distinct users with at least one RSVP.
	if err := db.Table("rsvps").Distinct("user_id").Count(&summary.TotalParticipants).Error; err != nil {
		return nil, err
	}

	err := db.Model(&models.Event{}).
		Select(participantCountSelect).
		Where("date = ?", today).
		Preload("Category").
		Order("name ASC").
		Find(&summary.TodaysEvents).Error
	if err != nil {
		return nil, err
	}

	return &summary, nil
}
