package queries

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"eventhub/internal/models"
)

var testDBSeq int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:queries%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.User{}, &models.Category{}, &models.Event{}))
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedEvent(t *testing.T, db *gorm.DB, name, location string, day time.Time, category *models.Category) models.Event {
	t.Helper()
	event := models.Event{Name: name, Location: location, Date: day}
	if category != nil {
		event.CategoryID = &category.ID
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestFilteredEventsSearchMatchesNameOrLocation(t *testing.T) {
	db := openTestDB(t)
	day := date(2025, 6, 1)
	seedEvent(t, db, "Jazz Night", "Blue Hall", day, nil)
	seedEvent(t, db, "Tech Meetup", "Jazz Cafe", day, nil)
	seedEvent(t, db, "Book Club", "Library", day, nil)

	var events []models.Event
	err := FilteredEvents(db, EventFilter{Search: "jazz"}).Find(&events).Error
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, e := range events {
		matched := strings.Contains(strings.ToLower(e.Name), "jazz") ||
			strings.Contains(strings.ToLower(e.Location), "jazz")
		require.True(t, matched, "event %q/%q should not have matched", e.Name, e.Location)
	}
}

func TestFilteredEventsConjunctiveFilters(t *testing.T) {
	db := openTestDB(t)
	music := models.Category{Name: "Music"}
	require.NoError(t, db.Create(&music).Error)
	sports := models.Category{Name: "Sports"}
	require.NoError(t, db.Create(&sports).Error)

	inRange := seedEvent(t, db, "Concert", "Arena", date(2025, 6, 10), &music)
	seedEvent(t, db, "Concert", "Arena", date(2025, 7, 10), &music)
	seedEvent(t, db, "Concert", "Arena", date(2025, 6, 10), &sports)

	from := date(2025, 6, 1)
	to := date(2025, 6, 30)
	var events []models.Event
	err := FilteredEvents(db, EventFilter{
		Search:     "concert",
		CategoryID: music.ID.String(),
		DateFrom:   &from,
		DateTo:     &to,
	}).Find(&events).Error
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, inRange.ID, events[0].ID)
}

func TestFilteredEventsDateBoundsInclusive(t *testing.T) {
	db := openTestDB(t)
	seedEvent(t, db, "On lower bound", "", date(2025, 6, 1), nil)
	seedEvent(t, db, "On upper bound", "", date(2025, 6, 30), nil)
	seedEvent(t, db, "Before", "", date(2025, 5, 31), nil)
	seedEvent(t, db, "After", "", date(2025, 7, 1), nil)

	from := date(2025, 6, 1)
	to := date(2025, 6, 30)
	var events []models.Event
	err := FilteredEvents(db, EventFilter{DateFrom: &from, DateTo: &to}).Find(&events).Error
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestParticipantCountAnnotation(t *testing.T) {
	db := openTestDB(t)
	event := seedEvent(t, db, "Party", "Hall", date(2025, 6, 1), nil)
	other := seedEvent(t, db, "Quiet Event", "Hall", date(2025, 6, 1), nil)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	require.NoError(t, db.Model(&event).Association("Participants").Append(&alice, &bob))

	var events []models.Event
	err := FilteredEvents(db, EventFilter{}).Order("name ASC").Find(&events).Error
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, event.ID, events[0].ID)
	require.EqualValues(t, 2, events[0].ParticipantCount)
	require.Equal(t, other.ID, events[1].ID)
	require.EqualValues(t, 0, events[1].ParticipantCount)
}

func TestTimeWindow(t *testing.T) {
	db := openTestDB(t)
	today := date(2025, 6, 15)
	seedEvent(t, db, "Yesterday", "", today.AddDate(0, 0, -1), nil)
	seedEvent(t, db, "Today", "", today, nil)
	seedEvent(t, db, "Tomorrow", "", today.AddDate(0, 0, 1), nil)

	var upcoming []models.Event
	require.NoError(t, TimeWindow(FilteredEvents(db, EventFilter{}), "upcoming", today).Order("date ASC").Find(&upcoming).Error)
	require.Len(t, upcoming, 2)
	require.Equal(t, "Today", upcoming[0].Name)
	require.Equal(t, "Tomorrow", upcoming[1].Name)

	var past []models.Event
	require.NoError(t, TimeWindow(FilteredEvents(db, EventFilter{}), "past", today).Find(&past).Error)
	require.Len(t, past, 1)
	require.Equal(t, "Yesterday", past[0].Name)

	var all []models.Event
	require.NoError(t, TimeWindow(FilteredEvents(db, EventFilter{}), "all", today).Find(&all).Error)
	require.Len(t, all, 3)
}

func TestUserEvents(t *testing.T) {
	db := openTestDB(t)
	first := seedEvent(t, db, "First", "", date(2025, 6, 1), nil)
	second := seedEvent(t, db, "Second", "", date(2025, 6, 2), nil)
	seedEvent(t, db, "Unrelated", "", date(2025, 6, 3), nil)

	alice := seedUser(t, db, "alice")
	require.NoError(t, db.Model(&first).Association("Participants").Append(&alice))
	require.NoError(t, db.Model(&second).Association("Participants").Append(&alice))

	var events []models.Event
	require.NoError(t, UserEvents(db, alice.ID.String()).Order("date ASC").Find(&events).Error)
	require.Len(t, events, 2)
	require.Equal(t, first.ID, events[0].ID)
	require.Equal(t, second.ID, events[1].ID)
}

func TestCategoriesWithCounts(t *testing.T) {
	db := openTestDB(t)
	music := models.Category{Name: "Music"}
	require.NoError(t, db.Create(&music).Error)
	empty := models.Category{Name: "Empty"}
	require.NoError(t, db.Create(&empty).Error)

	seedEvent(t, db, "Concert", "", date(2025, 6, 1), &music)
	seedEvent(t, db, "Recital", "", date(2025, 6, 2), &music)

	var categories []models.Category
	require.NoError(t, CategoriesWithCounts(db).Order("name ASC").Find(&categories).Error)
	require.Len(t, categories, 2)
	require.Equal(t, "Empty", categories[0].Name)
	require.EqualValues(t, 0, categories[0].EventCount)
	require.Equal(t, "Music", categories[1].Name)
	require.EqualValues(t, 2, categories[1].EventCount)
}

func TestDashboardCountsIdentity(t *testing.T) {
	db := openTestDB(t)
	today := date(2025, 6, 15)
	seedEvent(t, db, "Past 1", "", today.AddDate(0, 0, -2), nil)
	seedEvent(t, db, "Past 2", "", today.AddDate(0, 0, -1), nil)
	todays := seedEvent(t, db, "Today", "", today, nil)
	seedEvent(t, db, "Future", "", today.AddDate(0, 0, 3), nil)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedUser(t, db, "carol")
	require.NoError(t, db.Model(&todays).Association("Participants").Append(&alice, &bob))

	summary, err := Dashboard(db, today)
	require.NoError(t, err)

	require.EqualValues(t, 4, summary.TotalEvents)
	require.EqualValues(t, 1, summary.UpcomingEvents)
	require.EqualValues(t, 2, summary.PastEvents)
	todayCount := summary.TotalEvents - summary.UpcomingEvents - summary.PastEvents
	require.EqualValues(t, 1, todayCount)

	// carol never RSVP'd, alice and bob count once each.
	require.EqualValues(t, 2, summary.TotalParticipants)

	require.Len(t, summary.TodaysEvents, 1)
	require.Equal(t, todays.ID, summary.TodaysEvents[0].ID)
	require.EqualValues(t, 2, summary.TodaysEvents[0].ParticipantCount)
}

func TestDashboardDistinctParticipantsAcrossEvents(t *testing.T) {
	db := openTestDB(t)
	today := date(2025, 6, 15)
	first := seedEvent(t, db, "First", "", today, nil)
	second := seedEvent(t, db, "Second", "", today.AddDate(0, 0, 1), nil)

	alice := seedUser(t, db, "alice")
	require.NoError(t, db.Model(&first).Association("Participants").Append(&alice))
	require.NoError(t, db.Model(&second).Association("Participants").Append(&alice))

	summary, err := Dashboard(db, today)
	require.NoError(t, err)
	require.EqualValues(t, 1, summary.TotalParticipants)
}
