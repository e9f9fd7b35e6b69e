package storage

import (
	"context"
	"log"
	"time"

	"civicreport/backend/internal/apperr"
	"civicreport/backend/internal/config"
	"civicreport/backend/internal/models"
)

// StaffLoad is an assignment candidate together with its current workload.
type StaffLoad struct {
	User models.User
	Load int64
}

// CreateUser inserts a user together with its office links.
func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	return s.DB.WithContext(ctx).Create(user).Error
}

// FindUser loads a user and its offices.
func (s *Service) FindUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Preload("Offices").First(&user, id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}

// FindUserByUsername looks a user up by its (lowercase) username.
func (s *Service) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, "user", username)
	}
	return &user, nil
}

// SetUserActive toggles the activity flag of a user.
func (s *Service) SetUserActive(ctx context.Context, id uint, active bool) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user", id)
	}
	return nil
}

// AddUserToOffice links an existing user to an existing office.
func (s *Service) AddUserToOffice(ctx context.Context, userID, officeID uint) error {
	user, err := s.FindUser(ctx, userID)
	if err != nil {
		return err
	}
	var office models.Office
	if err := s.DB.WithContext(ctx).First(&office, officeID).Error; err != nil {
		return notFound(err, "office", officeID)
	}
	return s.DB.WithContext(ctx).Model(user).Association("Offices").Append(&office)
}

// FindStaffCandidates returns the active technical staff of an office with the number
// of reports each one currently holds in a load status. Ordered by user id.
func (s *Service) FindStaffCandidates(ctx context.Context, officeID uint) ([]StaffLoad, error) {
	var users []models.User
	err := s.DB.WithContext(ctx).
		Joins("JOIN user_offices ON user_offices.user_id = users.id").
		Where("user_offices.office_id = ? AND users.role = ? AND users.active = ?", officeID, models.RoleTechnicalStaff, true).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		log.Printf("ERROR: Failed to load staff candidates for office %d: %v", officeID, err)
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	type loadRow struct {
		AssigneeID uint
		Total      int64
	}
	var rows []loadRow
	err = s.DB.WithContext(ctx).Model(&models.Report{}).
		Select("assigned_to_id AS assignee_id, COUNT(*) AS total").
		Where("assigned_to_id IN ? AND status IN ?", ids, config.LoadStatuses).
		Group("assigned_to_id").
		Scan(&rows).Error
	if err != nil {
		log.Printf("ERROR: Failed to count staff load for office %d: %v", officeID, err)
		return nil, err
	}

	loads := make(map[uint]int64, len(rows))
	for _, r := range rows {
		loads[r.AssigneeID] = r.Total
	}

	candidates := make([]StaffLoad, 0, len(users))
	for _, u := range users {
		candidates = append(candidates, StaffLoad{User: u, Load: loads[u.ID]})
	}
	return candidates, nil
}

// TouchLastAssigned stamps the rotation key used to break load ties.
func (s *Service) TouchLastAssigned(ctx context.Context, userID uint, at time.Time) error {
	return s.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_assigned_at", at).Error
}

// CreateOffice inserts an office.
func (s *Service) CreateOffice(ctx context.Context, office *models.Office) error {
	return s.DB.WithContext(ctx).Create(office).Error
}

// CreateCategory inserts a category owned by an existing office.
func (s *Service) CreateCategory(ctx context.Context, category *models.Category) error {
	var office models.Office
	if err := s.DB.WithContext(ctx).First(&office, category.OfficeID).Error; err != nil {
		return notFound(err, "office", category.OfficeID)
	}
	return s.DB.WithContext(ctx).Create(category).Error
}

// FindCategory loads a category, served from the LRU cache when possible.
func (s *Service) FindCategory(ctx context.Context, id uint) (*models.Category, error) {
	if cached, ok := s.categories.Get(id); ok {
		return &cached, nil
	}
	var category models.Category
	if err := s.DB.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, notFound(err, "category", id)
	}
	s.categories.Add(id, category)
	return &category, nil
}

// ListCategories returns every category ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.DB.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
