package storage_test

import (
	"context"
	"testing"
	"time"

	"civicreport/backend/internal/apperr"
	"civicreport/backend/internal/models"
	"civicreport/backend/internal/storage"
	"civicreport/backend/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndFindReport(t *testing.T) {
	s := storagetest.NewService(t)
	ctx := context.Background()
	office := storagetest.Office(t, s, "Public Lighting")
	category := storagetest.Category(t, s, "Street lights", office)
	citizen := storagetest.User(t, s, models.RoleCitizen)

	report := &models.Report{
		Title:       "Pothole",
		Description: "Deep pothole in via Roma",
		CategoryID:  category.ID,
		Images: []models.ReportImage{
			{Position: 1, URI: "https://img.example.com/b.jpg"},
			{Position: 0, URI: "https://img.example.com/a.jpg"},
		},
		Latitude:  45.07,
		Longitude: 7.68,
		Status:    models.StatusPendingApproval,
		CreatorID: citizen.ID,
	}
	require.NoError(t, s.CreateReport(ctx, report))
	require.NotZero(t, report.ID)

	found, err := s.FindReport(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pothole", found.Title)
	assert.Equal(t, []string{"https://img.example.com/a.jpg", "https://img.example.com/b.jpg"}, found.ImageURIs())
	require.NotNil(t, found.Category)
	assert.Equal(t, office.ID, found.Category.OfficeID)
}

func TestFindReport_NotFound(t *testing.T) {
	s := storagetest.NewService(t)

	_, err := s.FindReport(context.Background(), 404)

	assert.True(t, apperr.IsNotFound(err))
}

func TestTransitionReport_CompareAndSet(t *testing.T) {
	s := storagetest.NewService(t)
	ctx := context.Background()
	office := storagetest.Office(t, s, "Roads")
	category := storagetest.Category(t, s, "Potholes", office)
	citizen := storagetest.User(t, s, models.RoleCitizen)
	staff := storagetest.User(t, s, models.RoleTechnicalStaff, office)
	report := storagetest.Report(t, s, citizen, category)

	empty := ""
	err := s.TransitionReport(ctx, report.ID, models.StatusPendingApproval, storage.ReportChange{
		Status:              models.StatusAssigned,
		AssignedToID:        &staff.ID,
		RejectedDescription: &empty,
	})
	require.NoError(t, err)

	// a second writer still expecting PendingApproval loses
	err = s.TransitionReport(ctx, report.ID, models.StatusPendingApproval, storage.ReportChange{Status: models.StatusAssigned})
	assert.True(t, apperr.IsConflict(err))
	assert.Equal(t, apperr.CodeStateConflict, apperr.CodeOf(err))

	found, err := s.FindReport(ctx, report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, found.Status)
	assert.True(t, found.IsAssignedTo(staff.ID))
}

func TestTransitionReport_MissingReport(t *testing.T) {
	s := storagetest.NewService(t)

	err := s.TransitionReport(context.Background(), 99, models.StatusPendingApproval, storage.ReportChange{Status: models.StatusRejected})

	assert.True(t, apperr.IsNotFound(err))
}

func TestFindStaffCandidates_CountsActiveLoadOnly(t *testing.T) {
	s := storagetest.NewService(t)
	ctx := context.Background()
	roads := storagetest.Office(t, s, "Roads")
	parks := storagetest.Office(t, s, "Parks")
	category := storagetest.Category(t, s, "Potholes", roads)
	citizen := storagetest.User(t, s, models.RoleCitizen)

	busy := storagetest.User(t, s, models.RoleTechnicalStaff, roads)
	idle := storagetest.User(t, s, models.RoleTechnicalStaff, roads, parks)
	inactive := storagetest.User(t, s, models.RoleTechnicalStaff, roads)
	require.NoError(t, s.SetUserActive(ctx, inactive.ID, false))
	storagetest.User(t, s, models.RoleTechnicalStaff, parks)
	storagetest.User(t, s, models.RolePublicRelationsOfficer, roads)

	storagetest.ReportInStatus(t, s, citizen, category, models.StatusAssigned, busy)
	storagetest.ReportInStatus(t, s, citizen, category, models.StatusInProgress, busy)
	storagetest.ReportInStatus(t, s, citizen, category, models.StatusResolved, idle)
	storagetest.ReportInStatus(t, s, citizen, category, models.StatusSuspended, idle)

	candidates, err := s.FindStaffCandidates(ctx, roads.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, busy.ID, candidates[0].User.ID)
	assert.Equal(t, int64(2), candidates[0].Load)
	assert.Equal(t, idle.ID, candidates[1].User.ID)
	assert.Equal(t, int64(0), candidates[1].Load, "resolved and suspended reports are not load")
}

func TestFindStaffCandidates_EmptyOffice(t *testing.T) {
	s := storagetest.NewService(t)
	office := storagetest.Office(t, s, "Empty")

	candidates, err := s.FindStaffCandidates(context.Background(), office.ID)

	assert.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestTouchLastAssigned(t *testing.T) {
	s := storagetest.NewService(t)
	ctx := context.Background()
	office := storagetest.Office(t, s, "Roads")
	staff := storagetest.User(t, s, models.RoleTechnicalStaff, office)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.TouchLastAssigned(ctx, staff.ID, at))

	candidates, err := s.FindStaffCandidates(ctx, office.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.NotNil(t, candidates[0].User.LastAssignedAt)
	assert.True(t, at.Equal(*candidates[0].User.LastAssignedAt))
}

func TestInsertChatIfAbsent_IsIdempotent(t *testing.T) {
	s := storagetest.NewService(t)
	ctx := context.Background()

	first := &models.Chat{Kind: models.ChatCitizenStaff, ReportID: 1, StaffID: 2, ParticipantID: 3}
	created, err := s.InsertChatIfAbsent(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	again := &models.Chat{Kind: models.ChatCitizenStaff, ReportID: 1, StaffID: 2, ParticipantID: 3}
	created, err = s.InsertChatIfAbsent(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	other := &models.Chat{Kind: models.ChatExternalMaintainerStaff, ReportID: 1, StaffID: 2, ParticipantID: 9}
	created, err = s.InsertChatIfAbsent(ctx, other)
	require.NoError(t, err)
	assert.True(t, created)

	var count int64
	require.NoError(t, s.DB.Model(&models.Chat{}).Where("report_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	exists, err := s.ChatExists(ctx, 1, models.ChatCitizenStaff)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = s.ChatExists(ctx, 2, models.ChatCitizenStaff)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMessages_OrderedOldestFirst(t *testing.T) {
	s := storagetest.NewService(t)
	ctx := context.Background()
	chat := &models.Chat{Kind: models.ChatCitizenStaff, ReportID: 1, StaffID: 2, ParticipantID: 3}
	_, err := s.InsertChatIfAbsent(ctx, chat)
	require.NoError(t, err)

	require.NoError(t, s.SaveMessage(ctx, &models.Message{ChatID: chat.ID, SenderID: 3, ReceiverID: 2, Text: "hello"}))
	require.NoError(t, s.SaveMessage(ctx, &models.Message{ChatID: chat.ID, SenderID: 2, ReceiverID: 3, Text: "on it"}))

	history, err := s.ListMessages(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "hello", history[0].Text)
	assert.Equal(t, "on it", history[1].Text)

	chats, err := s.ListChatsForUser(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, chats, 1)
}

func TestNotifications_SeenIsIdempotentAndScoped(t *testing.T) {
	s := storagetest.NewService(t)
	ctx := context.Background()
	n := &models.Notification{UserID: 5, ReportID: 1, PreviousStatus: models.StatusPendingApproval, NewStatus: models.StatusAssigned}
	require.NoError(t, s.CreateNotification(ctx, n))

	err := s.MarkNotificationSeen(ctx, 6, n.ID)
	assert.True(t, apperr.IsNotFound(err), "other users cannot touch the notification")

	require.NoError(t, s.MarkNotificationSeen(ctx, 5, n.ID))
	require.NoError(t, s.MarkNotificationSeen(ctx, 5, n.ID))

	unseen, err := s.CountUnseenNotifications(ctx, 5)
	require.NoError(t, err)
	assert.Zero(t, unseen)
}

func TestFindCategory_CachesHits(t *testing.T) {
	s := storagetest.NewService(t)
	ctx := context.Background()
	office := storagetest.Office(t, s, "Waste")
	category := storagetest.Category(t, s, "Bins", office)

	_, err := s.FindCategory(ctx, category.ID)
	require.NoError(t, err)

	// served from cache even after the row is gone
	require.NoError(t, s.DB.Delete(&models.Category{}, category.ID).Error)
	cached, err := s.FindCategory(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bins", cached.Name)

	_, err = s.FindCategory(ctx, 12345)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreateCategory_RequiresOffice(t *testing.T) {
	s := storagetest.NewService(t)

	err := s.CreateCategory(context.Background(), &models.Category{Name: "Orphan", OfficeID: 77})

	assert.True(t, apperr.IsNotFound(err))
}

func TestPublish_WithoutRedisIsNoop(t *testing.T) {
	s := storagetest.NewService(t)

	assert.NoError(t, s.Publish(context.Background(), "chat:1", models.RealtimeEvent{Type: models.EventChatMessage}))
	assert.Nil(t, s.Subscribe(context.Background(), "chat:1"))
}
