package config

import (
	"time"

	"civicreport/backend/internal/models"
)

const (
	// Reports
	MinReportImages   = 1
	MaxReportImages   = 3
	MaxTitleLength    = 200
	MaxRejectionChars = 1000

	// Chats
	MaxMessageLength = 2000

	// Directory cache
	CategoryCacheSize = 256

	// Auth
	DefaultTokenTTL = 72 * time.Hour
)

// LoadStatuses are the statuses counted as a staff member's active workload.
var LoadStatuses = []models.ReportStatus{
	models.StatusAssigned,
	models.StatusInProgress,
}

// DelegableStatuses are the statuses in which the assigned staff member may
// attach an external maintainer.
var DelegableStatuses = []models.ReportStatus{
	models.StatusAssigned,
	models.StatusInProgress,
	models.StatusSuspended,
}

// ServiceArea is the municipal boundary of Turin as (longitude, latitude) vertices.
// Reports outside this polygon are rejected.
var ServiceArea = [][2]float64{
	{7.5778, 45.0650},
	{7.6050, 45.1050},
	{7.6500, 45.1400},
	{7.7000, 45.1350},
	{7.7400, 45.1050},
	{7.7730, 45.0750},
	{7.7250, 45.0250},
	{7.6900, 45.0070},
	{7.6400, 45.0050},
	{7.6000, 45.0300},
}
