package db

import (
	"context"

	"chemlab_inventory/models"

	"gorm.io/gorm"
)

// Notifications

func (r *Repo) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

// notifyStudent informs the request's owner of a transition. Fire and
// forget: errors are swallowed so a notification failure never surfaces out
// of a committed transition.
func (r *Repo) notifyStudent(ctx context.Context, req *models.ChemicalRequest, title, message, notifType string) {
	id := req.ID
	_ = r.CreateNotification(ctx, &models.Notification{
		UserID:            req.StudentID,
		Title:             title,
		Message:           message,
		Type:              notifType,
		RelatedEntityType: "chemical_request",
		RelatedEntityID:   &id,
	})
}

// notifyAdmins fans one message out to every active admin.
func (r *Repo) notifyAdmins(ctx context.Context, title, message, notifType string, requestID uint) {
	ids, err := r.ListAdminIDs(ctx)
	if err != nil {
		return
	}
	for _, uid := range ids {
		id := requestID
		_ = r.CreateNotification(ctx, &models.Notification{
			UserID:            uid,
			Title:             title,
			Message:           message,
			Type:              notifType,
			RelatedEntityType: "chemical_request",
			RelatedEntityID:   &id,
		})
	}
}

func (r *Repo) ListNotifications(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, error) {
	q := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var ns []models.Notification
	err := q.Find(&ns).Error
	return ns, err
}

// MarkNotificationRead flips the read flag, but only for the owning user.
func (r *Repo) MarkNotificationRead(ctx context.Context, id, userID uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repo) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}
