package store

import (
	"context"
	"strings"

	"sautipay/internal/models"
)

func (m *Memory) UserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := indexOf(m.users, func(u models.User) bool { return strings.EqualFold(u.Email, strings.TrimSpace(email)) })
	if i < 0 {
		return models.User{}, ErrNotFound
	}
	return m.users[i], nil
}

func (m *Memory) UserByID(_ context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := indexOf(m.users, func(u models.User) bool { return u.ID == id })
	if i < 0 {
		return models.User{}, ErrNotFound
	}
	return m.users[i], nil
}
