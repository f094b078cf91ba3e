package notificationrepo

import (
	"context"

	"gorm.io/gorm"

	"codship/internal/core/domain/model/kernel"
	"codship/internal/core/domain/model/notification"
	"codship/internal/pkg/errs"
)

// GormNotificationOutbox implements NotificationOutbox using GORM.
type GormNotificationOutbox struct {
	db *gorm.DB
}

// NewGormNotificationOutbox creates a new GORM notification outbox.
func NewGormNotificationOutbox(db *gorm.DB) *GormNotificationOutbox {
	return &GormNotificationOutbox{db: db}
}

// Add enqueues an intent.
func (r *GormNotificationOutbox) Add(ctx context.Context, intent notification.Intent) error {
	if err := intent.Channel.Validate(); err != nil {
		return err
	}

	dto := fromDomain(intent)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetPending returns up to limit pending intents, oldest first, so
// notifications go out in the order their stage updates happened.
func (r *GormNotificationOutbox) GetPending(ctx context.Context, limit int) ([]notification.Intent, error) {
	var dtos []IntentDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", string(notification.StatusPending)).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	intents := make([]notification.Intent, 0, len(dtos))
	for _, dto := range dtos {
		intent, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		intents = append(intents, intent)
	}
	return intents, nil
}

// MarkSent records a successful dispatch.
func (r *GormNotificationOutbox) MarkSent(ctx context.Context, intentID kernel.UUID) error {
	if err := intentID.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&IntentDTO{}).
		Where("id = ?", intentID.Bytes()).
		Update("status", string(notification.StatusSent))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification intent", intentID.String())
	}
	return nil
}

// MarkFailed stores the new attempt count. The intent stays pending and is
// retried on the next dispatcher run until final is set, when it moves to
// failed for good.
func (r *GormNotificationOutbox) MarkFailed(ctx context.Context, intentID kernel.UUID, attempts int, final bool) error {
	if err := intentID.Validate(); err != nil {
		return err
	}

	updates := map[string]any{"attempts": attempts}
	if final {
		updates["status"] = string(notification.StatusFailed)
	}

	result := r.db.WithContext(ctx).Model(&IntentDTO{}).
		Where("id = ?", intentID.Bytes()).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification intent", intentID.String())
	}
	return nil
}
