// internal/api/contact.go
package api

import (
	"context"

	"estate-client/internal/common/validation"
	"estate-client/internal/models"
	"estate-client/pkg/registry"
)

// SendMessage submits the contact form. All fields except the listing are required.
func (c *Client) SendMessage(ctx context.Context, req models.ContactRequest) error {
	if err := validation.Check(validation.FormContact, req, "Please fill in all fields"); err != nil {
		return err
	}
	if err := validation.CheckEmail("email", req.Email); err != nil {
		return err
	}
	if err := validation.CheckPhone("contactNumber", req.ContactNumber); err != nil {
		return err
	}
	return c.mutate(ctx, call{name: registry.ContactCreate, body: req}, nil)
}

func (c *Client) Messages(ctx context.Context) ([]models.ContactMessage, error) {
	var out []models.ContactMessage
	err := c.query(ctx, call{name: registry.ContactList}, &out)
	return out, err
}

func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return c.mutate(ctx, call{name: registry.ContactDelete, params: []string{id}}, nil)
}

func (c *Client) MarkMessageRead(ctx context.Context, id string) error {
	return c.mutate(ctx, call{name: registry.ContactMarkRead, params: []string{id}}, nil)
}
