// internal/api/notifications.go
package api

import (
	"context"
	"net/url"
	"strconv"

	"estate-client/internal/common/validation"
	"estate-client/internal/models"
	"estate-client/pkg/registry"
)

func pageQuery(limit, page, defaultLimit int) url.Values {
	if limit <= 0 {
		limit = defaultLimit
	}
	if page <= 0 {
		page = 1
	}
	return url.Values{"limit": {strconv.Itoa(limit)}, "page": {strconv.Itoa(page)}}
}

// Notifications lists the signed-in user's notifications (default 20 per page).
func (c *Client) Notifications(ctx context.Context, limit, page int) (models.NotificationPage, error) {
	var out models.NotificationPage
	err := c.query(ctx, call{name: registry.NotificationList, query: pageQuery(limit, page, 20)}, &out)
	return out, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.mutate(ctx, call{name: registry.NotificationMarkRead, params: []string{id}}, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.mutate(ctx, call{name: registry.NotificationReadAll}, nil)
}

func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.mutate(ctx, call{name: registry.NotificationDelete, params: []string{id}}, nil)
}

func (c *Client) CreateNotification(ctx context.Context, req models.NotificationRequest) error {
	if err := validation.Check(validation.FormNotification, req, "Please fill in all fields"); err != nil {
		return err
	}
	return c.mutate(ctx, call{name: registry.NotificationCreate, body: req}, nil)
}

// SendTestNotification asks the backend to notify the current user.
func (c *Client) SendTestNotification(ctx context.Context) error {
	return c.mutate(ctx, call{name: registry.NotificationTest}, nil)
}

// AdminNotifications lists notifications for all users (default 50 per page).
func (c *Client) AdminNotifications(ctx context.Context, limit, page int) (models.NotificationPage, error) {
	var out models.NotificationPage
	err := c.query(ctx, call{name: registry.NotificationAdmin, query: pageQuery(limit, page, 50)}, &out)
	return out, err
}
