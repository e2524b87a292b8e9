package mongodb

import (
	"context"
	"fmt"
	"time"

	entity "github.com/Faraimunashe/negcom/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DatabaseName     = "negcom"
	CollectionStatus = "status_history"
	CollectionNotifs = "notifications"
)

type LogRepository interface {
	SaveHistoryStatus(doc *entity.HistoryStatus) error
	SaveNotification(doc *entity.Notification) error
	ListRecentNotifications(userID uuid.UUID, limit int) ([]entity.Notification, error)
	CountUnread(userID uuid.UUID) (int64, error)
	MarkNotificationRead(id primitive.ObjectID, userID uuid.UUID) error
	MarkAllNotificationsRead(userID uuid.UUID) error
}

type logRepository struct {
	client *mongo.Client
}

func NewLogRepository(client *mongo.Client) LogRepository {
	return &logRepository{client: client}
}

func (r *logRepository) collection(name string) *mongo.Collection {
	return r.client.Database(DatabaseName).Collection(name)
}

func (r *logRepository) SaveHistoryStatus(doc *entity.HistoryStatus) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.collection(CollectionStatus).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert history status: %w", err)
	}
	return nil
}

func (r *logRepository) SaveNotification(doc *entity.Notification) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.collection(CollectionNotifs).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *logRepository) ListRecentNotifications(userID uuid.UUID, limit int) ([]entity.Notification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection(CollectionNotifs).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []entity.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return notifications, nil
}

func (r *logRepository) CountUnread(userID uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return r.collection(CollectionNotifs).CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
}

func (r *logRepository) MarkNotificationRead(id primitive.ObjectID, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection(CollectionNotifs).UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (r *logRepository) MarkAllNotificationsRead(userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.collection(CollectionNotifs).UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
