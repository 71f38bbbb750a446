package repository

import (
	"context"
	"fmt"
	"strings"

	"sivigila-data/internal/domain"
	"sivigila-data/internal/sheets"

	"go.uber.org/zap"
)

// UserDirectory directorio de identidades sobre la hoja USUARIOS.
// El directorio no se cachea: es pequeño y solo se lee al autenticar o al
// administrar usuarios.
type UserDirectory struct {
	client sheets.Client
	logger *zap.Logger
}

func NewUserDirectory(client sheets.Client, logger *zap.Logger) *UserDirectory {
	return &UserDirectory{client: client, logger: logger}
}

// LoadAll returns every user row, creating the table when missing.
func (d *UserDirectory) LoadAll(ctx context.Context) ([]domain.User, error) {
	if err := d.client.EnsureTable(ctx, sheets.UserTable, domain.UserColumns); err != nil {
		return nil, fmt.Errorf("failed to ensure user table: %w", err)
	}
	rows, err := d.client.ReadAllRows(ctx, sheets.UserTable)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, domain.UserFromRow(row))
	}
	return users, nil
}

// FindByUsername looks a user up by case-insensitive username.
func (d *UserDirectory) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	users, err := d.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(username))
	for i := range users {
		if strings.ToLower(strings.TrimSpace(users[i].Username)) == needle {
			return &users[i], nil
		}
	}
	return nil, nil
}

// Append stores a new user row. Uniqueness is the caller's concern.
func (d *UserDirectory) Append(ctx context.Context, user domain.User) error {
	if err := d.client.EnsureTable(ctx, sheets.UserTable, domain.UserColumns); err != nil {
		return fmt.Errorf("failed to ensure user table: %w", err)
	}
	if err := d.client.AppendRow(ctx, sheets.UserTable, user.Row()); err != nil {
		return fmt.Errorf("failed to append user: %w", err)
	}
	d.logger.Info("User appended",
		zap.String("username", user.Username),
		zap.String("role", user.Role),
	)
	return nil
}
