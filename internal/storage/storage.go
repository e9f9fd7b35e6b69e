package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"civicreport/backend/internal/apperr"
	"civicreport/backend/internal/config"
	"civicreport/backend/internal/models"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the persistence boundary of the platform.
type Storage interface {
	// Users and offices
	CreateUser(ctx context.Context, user *models.User) error
	FindUser(ctx context.Context, id uint) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	SetUserActive(ctx context.Context, id uint, active bool) error
	AddUserToOffice(ctx context.Context, userID, officeID uint) error
	FindStaffCandidates(ctx context.Context, officeID uint) ([]StaffLoad, error)
	TouchLastAssigned(ctx context.Context, userID uint, at time.Time) error
	CreateOffice(ctx context.Context, office *models.Office) error
	CreateCategory(ctx context.Context, category *models.Category) error
	FindCategory(ctx context.Context, id uint) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)

	// Reports
	CreateReport(ctx context.Context, report *models.Report) error
	FindReport(ctx context.Context, id uint) (*models.Report, error)
	TransitionReport(ctx context.Context, id uint, from models.ReportStatus, change ReportChange) error
	UpdateReportCategory(ctx context.Context, id, categoryID uint) error
	SetCoAssignee(ctx context.Context, id, staffID, maintainerID uint) error
	ListReportsByStatus(ctx context.Context, status models.ReportStatus) ([]models.Report, error)
	ListReportsByCreator(ctx context.Context, userID uint) ([]models.Report, error)
	ListReportsForStaff(ctx context.Context, userID uint) ([]models.Report, error)

	// Chats and messages
	InsertChatIfAbsent(ctx context.Context, chat *models.Chat) (bool, error)
	ChatExists(ctx context.Context, reportID uint, kind models.ChatKind) (bool, error)
	FindChat(ctx context.Context, id uint) (*models.Chat, error)
	ListChatsForUser(ctx context.Context, userID uint) ([]models.Chat, error)
	SaveMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, chatID uint) ([]models.Message, error)

	// Notifications
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID uint) ([]models.Notification, error)
	MarkNotificationSeen(ctx context.Context, userID, id uint) error
	MarkAllNotificationsSeen(ctx context.Context, userID uint) (int64, error)
	CountUnseenNotifications(ctx context.Context, userID uint) (int64, error)

	// Realtime
	Publish(ctx context.Context, channel string, event models.RealtimeEvent) error
	Subscribe(ctx context.Context, channel string) *redis.PubSub
}

// Service implements Storage on PostgreSQL (gorm) and Redis.
// Redis is optional: without it Publish is a no-op and Subscribe returns nil.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client

	categories *lru.Cache[uint, models.Category]
}

var _ Storage = (*Service)(nil)

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	cache, err := lru.New[uint, models.Category](config.CategoryCacheSize)
	if err != nil {
		log.Fatalf("Failed to create category cache: %v", err)
	}
	return &Service{
		DB:         db,
		Redis:      rdb,
		categories: cache,
	}
}

// Migrate creates or updates every table of the platform.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Office{},
		&models.Category{},
		&models.User{},
		&models.Report{},
		&models.ReportImage{},
		&models.Chat{},
		&models.Message{},
		&models.Notification{},
	)
}

// notFound translates gorm.ErrRecordNotFound into a domain NotFound error.
func notFound(err error, entity string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return err
}
