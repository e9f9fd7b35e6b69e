// Package storagetest opens an in-memory SQLite database with the full schema
// and seeds entities for tests of packages built on top of storage.
package storagetest

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"civicreport/backend/internal/models"
	"civicreport/backend/internal/storage"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// NewDB opens a fresh in-memory database and migrates every table.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("could not open test DB: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("could not get sql.DB: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := storage.Migrate(db); err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	return db
}

// NewService returns a storage service on a fresh database, without Redis.
func NewService(t testing.TB) *storage.Service {
	t.Helper()
	return storage.NewStorageService(NewDB(t), nil)
}

// Office inserts an office.
func Office(t testing.TB, s *storage.Service, name string) *models.Office {
	t.Helper()
	office := &models.Office{Name: name}
	if err := s.CreateOffice(context.Background(), office); err != nil {
		t.Fatalf("seed office %q: %v", name, err)
	}
	return office
}

// Category inserts a category owned by office.
func Category(t testing.TB, s *storage.Service, name string, office *models.Office) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, OfficeID: office.ID}
	if err := s.CreateCategory(context.Background(), category); err != nil {
		t.Fatalf("seed category %q: %v", name, err)
	}
	return category
}

// User inserts an active user with the given role, linked to offices.
func User(t testing.TB, s *storage.Service, role models.Role, offices ...*models.Office) *models.User {
	t.Helper()
	n := seq.Add(1)
	user := &models.User{
		Username:     fmt.Sprintf("user%d", n),
		Email:        fmt.Sprintf("user%d@example.com", n),
		PasswordHash: "x",
		Role:         role,
		Active:       true,
	}
	for _, o := range offices {
		user.Offices = append(user.Offices, *o)
	}
	if err := s.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// Report inserts a pending report filed by creator under category.
func Report(t testing.TB, s *storage.Service, creator *models.User, category *models.Category) *models.Report {
	t.Helper()
	report := &models.Report{
		Title:       "Broken street light",
		Description: "The light at the corner has been off for a week",
		CategoryID:  category.ID,
		Images:      []models.ReportImage{{Position: 0, URI: "https://img.example.com/1.jpg"}},
		Latitude:    45.0703,
		Longitude:   7.6869,
		Status:      models.StatusPendingApproval,
		CreatorID:   creator.ID,
	}
	if err := s.CreateReport(context.Background(), report); err != nil {
		t.Fatalf("seed report: %v", err)
	}
	return report
}

// ReportInStatus inserts a report and forces it into status with the given assignee.
func ReportInStatus(t testing.TB, s *storage.Service, creator *models.User, category *models.Category,
	status models.ReportStatus, assignee *models.User) *models.Report {
	t.Helper()
	report := Report(t, s, creator, category)
	updates := map[string]interface{}{"status": status}
	if assignee != nil {
		updates["assigned_to_id"] = assignee.ID
	}
	if status == models.StatusRejected {
		updates["rejected_description"] = "seeded"
	}
	if err := s.DB.Model(&models.Report{}).Where("id = ?", report.ID).Updates(updates).Error; err != nil {
		t.Fatalf("force report status: %v", err)
	}
	reloaded, err := s.FindReport(context.Background(), report.ID)
	if err != nil {
		t.Fatalf("reload report: %v", err)
	}
	return reloaded
}
