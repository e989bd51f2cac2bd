package event

import (
	"time"
)

// Category classifies an event for display and time accounting.
type Category string

const (
	CategoryTask    Category = "task"
	CategoryMeeting Category = "meeting"
	CategoryCall    Category = "call"
	CategoryStudy   Category = "study"
	CategoryRest    Category = "rest"
)

// Categories lists every known category in display order.
var Categories = []Category{CategoryTask, CategoryMeeting, CategoryCall, CategoryStudy, CategoryRest}

type categoryConfig struct {
	Label string
	Color string
}

var categoryConfigs = map[Category]categoryConfig{
	CategoryTask:    {Label: "Задачи", Color: "#00955E"},
	CategoryMeeting: {Label: "Встречи", Color: "#0033A1"},
	CategoryCall:    {Label: "Звонки", Color: "#6f42c1"},
	CategoryStudy:   {Label: "Учеба", Color: "#fd7e14"},
	CategoryRest:    {Label: "Отдых", Color: "#20c997"},
}

func (c Category) Valid() bool {
	_, ok := categoryConfigs[c]
	return ok
}

// Label is the human readable name of the category.
func (c Category) Label() string {
	return categoryConfigs[c.OrDefault()].Label
}

func (c Category) Color() string {
	return categoryConfigs[c.OrDefault()].Color
}

// OrDefault maps unknown or missing categories to CategoryTask.
func (c Category) OrDefault() Category {
	if c.Valid() {
		return c
	}
	return CategoryTask
}

const DefaultTitle = "Untitled"

// Event is a snapshot of a calendar event as held by the event store.
// Id is empty for drafts that were never stored.
type Event struct {
	Id          string
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Category    Category
}

// Duration is EndTime - StartTime, never negative.
func (e Event) Duration() time.Duration {
	d := e.EndTime.Sub(e.StartTime)
	if d < 0 {
		return 0
	}
	return d
}
