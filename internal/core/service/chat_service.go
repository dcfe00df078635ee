package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mentorlink/attendance-portal/internal/core/domain"
	"github.com/mentorlink/attendance-portal/internal/core/ports"
)

// ChatService stores and serves mentor↔parent conversation threads. Who may
// talk to whom is re-derived from the live student→mentor mapping on every
// call: a roster re-import that reassigns a student immediately changes both
// sides' contact sets.
type ChatService struct {
	messages ports.MessageRepository
	students ports.StudentRepository
	users    ports.AuthRepository
	logger   zerolog.Logger
}

func NewChatService(messages ports.MessageRepository, students ports.StudentRepository, users ports.AuthRepository, logger zerolog.Logger) *ChatService {
	return &ChatService{messages: messages, students: students, users: users, logger: logger}
}

// Send appends a message after checking that the recipient is currently in
// the sender's contact set. The stored message is returned so the client can
// replace its optimistic local echo with the authoritative id and timestamp.
func (s *ChatService) Send(ctx context.Context, senderID, recipientID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.ErrEmptyMessage
	}

	allowed, err := s.isContact(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrNotAllowed
	}

	msg := &domain.Message{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		s.logger.Error().Err(err).Str("sender_id", senderID).Msg("failed to store message")
		return nil, err
	}
	return msg, nil
}

// History returns every message between the caller and target in either
// direction, ascending by (created_at, id). The pairing must hold at read
// time; an empty thread between a valid pair is a valid result.
func (s *ChatService) History(ctx context.Context, userID, targetID string) ([]*domain.Message, error) {
	allowed, err := s.isContact(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrNotAllowed
	}
	return s.messages.FindBetween(ctx, userID, targetID)
}

// Contacts derives the caller's current messaging peers. Mentors get the
// parents of students they own right now; parents get the current owner of
// their linked student, or nothing while the record is unassigned.
func (s *ChatService) Contacts(ctx context.Context, userID string) ([]*domain.Contact, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch user.Role {
	case domain.RoleMentor:
		return s.mentorContacts(ctx, user)
	case domain.RoleParent:
		return s.parentContacts(ctx, user)
	default:
		return []*domain.Contact{}, nil
	}
}

func (s *ChatService) mentorContacts(ctx context.Context, mentor *domain.User) ([]*domain.Contact, error) {
	students, err := s.students.ListByMentor(ctx, mentor.ID)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return []*domain.Contact{}, nil
	}

	// A parent account links by either the student's roll number or the
	// parent-facing id, so the match set must carry both forms.
	seen := make(map[string]struct{}, len(students)*2)
	ids := make([]string, 0, len(students)*2)
	for _, st := range students {
		for _, id := range []string{st.RollNo, st.ParentID} {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	parents, err := s.users.FindParentsByLinkedIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	contacts := make([]*domain.Contact, 0, len(parents))
	for _, p := range parents {
		contacts = append(contacts, &domain.Contact{
			ID:     p.ID,
			Name:   p.Name,
			Role:   domain.RoleParent,
			RollNo: p.RollNo,
		})
	}
	return contacts, nil
}

func (s *ChatService) parentContacts(ctx context.Context, parent *domain.User) ([]*domain.Contact, error) {
	student, err := s.students.FindByPublicID(ctx, parent.RollNo)
	if err != nil {
		if errors.Is(err, domain.ErrStudentNotFound) {
			return []*domain.Contact{}, nil
		}
		return nil, err
	}
	if student.MentorID == "" {
		return []*domain.Contact{}, nil
	}

	mentor, err := s.users.FindByID(ctx, student.MentorID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return []*domain.Contact{}, nil
		}
		return nil, err
	}

	return []*domain.Contact{{
		ID:     mentor.ID,
		Name:   mentor.Name,
		Role:   domain.RoleMentor,
		RollNo: student.RollNo,
	}}, nil
}

func (s *ChatService) isContact(ctx context.Context, userID, targetID string) (bool, error) {
	contacts, err := s.Contacts(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, c := range contacts {
		if c.ID == targetID {
			return true, nil
		}
	}
	return false, nil
}
