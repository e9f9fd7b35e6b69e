package chathub

import (
	"context"
	"log"

	"civicreport/backend/internal/apperr"
	"civicreport/backend/internal/models"
)

// ParticipantRole is the role a user plays inside a report chat. It is resolved
// once from the account role so the rest of the package never inspects models.Role.
type ParticipantRole int

const (
	ParticipantUnknown ParticipantRole = iota
	ParticipantCitizen
	ParticipantStaff
	ParticipantExternalMaintainer
)

func (r ParticipantRole) String() string {
	switch r {
	case ParticipantCitizen:
		return "citizen"
	case ParticipantStaff:
		return "staff"
	case ParticipantExternalMaintainer:
		return "external_maintainer"
	default:
		return "unknown"
	}
}

// ParticipantRoleOf maps an account role to its chat role.
func ParticipantRoleOf(role models.Role) (ParticipantRole, error) {
	switch role {
	case models.RoleCitizen:
		return ParticipantCitizen, nil
	case models.RoleTechnicalStaff:
		return ParticipantStaff, nil
	case models.RoleExternalMaintainer:
		return ParticipantExternalMaintainer, nil
	}
	return ParticipantUnknown, apperr.Validation("role", "%s cannot take part in report chats", role)
}

// ChatKind returns the kind of chat a staff member opens with this participant.
func (r ParticipantRole) ChatKind() (models.ChatKind, error) {
	switch r {
	case ParticipantCitizen:
		return models.ChatCitizenStaff, nil
	case ParticipantExternalMaintainer:
		return models.ChatExternalMaintainerStaff, nil
	}
	return "", apperr.Validation("role", "no chat kind pairs staff with %s", r)
}

// Participant is the non-staff side of a report chat.
type Participant struct {
	UserID uint
	Role   ParticipantRole
}

// ChatStore is the persistence the chat hub needs.
type ChatStore interface {
	InsertChatIfAbsent(ctx context.Context, chat *models.Chat) (bool, error)
	ChatExists(ctx context.Context, reportID uint, kind models.ChatKind) (bool, error)
	FindChat(ctx context.Context, id uint) (*models.Chat, error)
	ListChatsForUser(ctx context.Context, userID uint) ([]models.Chat, error)
	SaveMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, chatID uint) ([]models.Message, error)
}

// Spawner opens report chats. Opening the same chat twice is a no-op that
// returns the existing row.
type Spawner struct {
	Storage ChatStore
}

// NewSpawner creates a new chat spawner.
func NewSpawner(s ChatStore) *Spawner {
	return &Spawner{Storage: s}
}

// EnsureChat makes sure the chat between staffID and other exists for the report.
// created is true only for the call that inserted the row.
func (s *Spawner) EnsureChat(ctx context.Context, reportID, staffID uint, other Participant) (*models.Chat, bool, error) {
	if reportID == 0 {
		return nil, false, apperr.Validation("reportId", "must be a positive integer")
	}
	if staffID == 0 || other.UserID == 0 {
		return nil, false, apperr.Validation("participant", "both participants are required")
	}
	if staffID == other.UserID {
		return nil, false, apperr.Validation("participant", "a chat needs two distinct users")
	}

	kind, err := other.Role.ChatKind()
	if err != nil {
		return nil, false, err
	}

	chat := &models.Chat{
		Kind:          kind,
		ReportID:      reportID,
		StaffID:       staffID,
		ParticipantID: other.UserID,
	}
	created, err := s.Storage.InsertChatIfAbsent(ctx, chat)
	if err != nil {
		return nil, false, err
	}
	if created {
		log.Printf("INFO: Opened %s chat %d for report %d", kind, chat.ID, reportID)
	}
	return chat, created, nil
}

// HasChat reports whether the report already has a chat of the given kind.
func (s *Spawner) HasChat(ctx context.Context, reportID uint, kind models.ChatKind) (bool, error) {
	return s.Storage.ChatExists(ctx, reportID, kind)
}
