// Package domain contains the core data types for the travel log application.
// This package has zero external dependencies and is imported by every other
// internal package (repo, storage, service, handler).
package domain

import "time"

// TravelLog represents a single captured travel memory.
// A travel log is the top-level aggregate; photos belong to a log and are
// created together with it. IDs are database-assigned and increase in the
// same order as CreatedAt, so "newest first" and "highest ID first" agree.
type TravelLog struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Latitude    float64   `json:"latitude"`  // 0 means "unset"
	Longitude   float64   `json:"longitude"` // 0 means "unset"
	VisitedAt   time.Time `json:"visitedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	Photos      []Photo   `json:"photos"`
}

// Photo is one stored image owned by exactly one TravelLog.
// URL is a relative path under the public uploads base (e.g.
// "/uploads/1712345_beach.jpg"); the server is the sole authority mapping
// it to a physical file. A photo row never outlives its log: the photos
// table cascades on log deletion.
type Photo struct {
	ID    int64  `json:"id"`
	LogID int64  `json:"logId"`
	URL   string `json:"url"`
}
