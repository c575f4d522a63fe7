package services

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/FlowDomain/NutriLog/models"
	"gorm.io/gorm"
)

const defaultAlertLimit = 50

// Pusher delivers a notification to the user's registered mobile devices.
type Pusher interface {
	PushToUser(ctx context.Context, userID uint, title, body string, data map[string]string)
}

// AlertBus stores alerts and forwards them to open sockets and devices.
// events and push may be nil.
type AlertBus struct {
	db     *gorm.DB
	events EventPublisher
	push   Pusher
	log    *slog.Logger
}

func NewAlertBus(db *gorm.DB, events EventPublisher, push Pusher, log *slog.Logger) *AlertBus {
	return &AlertBus{db: db, events: events, push: push, log: log}
}

func (b *AlertBus) Emit(ctx context.Context, alert *models.Alert) error {
	if err := b.db.WithContext(ctx).Create(alert).Error; err != nil {
		return err
	}
	b.log.Info("alert emitted", "user_id", alert.UserID, "type", alert.Type, "alert_id", alert.ID)

	if b.events != nil {
		b.events.Publish(alert.UserID, Event{Kind: EventAlertCreated, Data: alert})
	}
	if b.push != nil {
		b.push.PushToUser(ctx, alert.UserID, "New Alert", alert.Message, map[string]string{
			"type":    alert.Type,
			"alertId": strconv.FormatUint(uint64(alert.ID), 10),
			"mealId":  alert.MealID,
		})
	}
	return nil
}

// List returns the user's most recent alerts, newest first.
func (b *AlertBus) List(ctx context.Context, userID uint, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = defaultAlertLimit
	}
	alerts := []models.Alert{}
	err := b.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}
