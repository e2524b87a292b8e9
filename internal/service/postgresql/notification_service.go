package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	entity "github.com/Faraimunashe/negcom/internal/domain"
	mongorepo "github.com/Faraimunashe/negcom/internal/repository/mongodb"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidNotificationID = errors.New("invalid notification id")

// NotificationService persists notifications and transition audit
// records in Mongo. As a NotificationSink it is fire-and-forget:
// failures are logged and swallowed so a committed transition is
// never rolled back.
type NotificationService struct {
	logRepo mongorepo.LogRepository
}

func NewNotificationService(logRepo mongorepo.LogRepository) *NotificationService {
	return &NotificationService{logRepo: logRepo}
}

func (s *NotificationService) NotifyTransition(event entity.NegotiationEvent) {
	history := &entity.HistoryStatus{
		ID:          primitive.NewObjectID(),
		RelatedID:   event.NegotiationID.String(),
		RelatedType: "negotiation",
		OldStatus:   string(event.OldStatus),
		NewStatus:   string(event.NewStatus),
		ChangedBy:   string(event.ChangedBy),
		Timestamp:   time.Now(),
	}
	if err := s.logRepo.SaveHistoryStatus(history); err != nil {
		log.Printf("warning: failed to save history status for negotiation %s: %v", event.NegotiationID.String(), err)
	}

	title, message, notifType := describeTransition(event)
	notification := &entity.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    event.BuyerID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Category:  "negotiation",
		RelatedID: event.NegotiationID,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := s.logRepo.SaveNotification(notification); err != nil {
		log.Printf("warning: failed to save notification for user %s: %v", event.BuyerID.String(), err)
	}
}

func describeTransition(event entity.NegotiationEvent) (title, message, notifType string) {
	switch event.NewStatus {
	case entity.StatusPending:
		return "Negotiation Started", "Your offer has been sent to the dealer.", "info"
	case entity.StatusOngoing:
		if event.LatestOffer != nil && event.LatestOffer.OfferedBy != entity.ActorBuyer {
			return "New Counter Offer", fmt.Sprintf("The dealer countered with $%.2f.", event.LatestOffer.Amount), "info"
		}
		return "Offer Submitted", "Your offer has been recorded.", "info"
	case entity.StatusAccepted:
		return "Negotiation Accepted", "Your negotiation was accepted. Congratulations!", "success"
	case entity.StatusRejected:
		return "Negotiation Rejected", "Your negotiation was rejected.", "warning"
	case entity.StatusExpired:
		return "Negotiation Expired", "Your negotiation expired without agreement.", "warning"
	case entity.StatusCancelled:
		return "Negotiation Cancelled", "Your negotiation was cancelled.", "info"
	default:
		return "Negotiation Updated", "Your negotiation status changed.", "info"
	}
}

func (s *NotificationService) Recent(userID uuid.UUID, limit int) ([]entity.Notification, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.logRepo.ListRecentNotifications(userID, limit)
}

func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	return s.logRepo.CountUnread(userID)
}

func (s *NotificationService) MarkRead(idStr string, userID uuid.UUID) error {
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return ErrInvalidNotificationID
	}
	return s.logRepo.MarkNotificationRead(id, userID)
}

func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	return s.logRepo.MarkAllNotificationsRead(userID)
}
