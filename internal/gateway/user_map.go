package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dancloud/chat/pkg/constant"
	"github.com/redis/go-redis/v9"
)

// UserMap manages user connections
type UserMap struct {
	mu    sync.RWMutex
	users map[string][]*Client // userId -> clients
	rdb   *redis.Client
}

// NewUserMap creates a new UserMap
func NewUserMap(rdb *redis.Client) *UserMap {
	return &UserMap{
		users: make(map[string][]*Client),
		rdb:   rdb,
	}
}

// Register registers a client
func (m *UserMap) Register(ctx context.Context, client *Client) {
	m.mu.Lock()
	m.users[client.UserId] = append(m.users[client.UserId], client)
	m.mu.Unlock()

	m.setOnline(ctx, client.UserId)
}

// Unregister unregisters a client. Returns true when the user has no
// remaining connections.
func (m *UserMap) Unregister(ctx context.Context, client *Client) bool {
	m.mu.Lock()

	clients, exists := m.users[client.UserId]
	if !exists {
		m.mu.Unlock()
		return false
	}

	remaining := make([]*Client, 0, len(clients))
	for _, c := range clients {
		if c.ConnId != client.ConnId {
			remaining = append(remaining, c)
		}
	}

	if len(remaining) == 0 {
		delete(m.users, client.UserId)
		m.mu.Unlock()
		m.setOffline(ctx, client.UserId)
		return true
	}

	m.users[client.UserId] = remaining
	m.mu.Unlock()
	return false
}

// GetAll gets all clients for a user
func (m *UserMap) GetAll(userId string) ([]*Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clients, exists := m.users[userId]
	if !exists {
		return nil, false
	}

	// Return a copy to avoid race conditions
	out := make([]*Client, len(clients))
	copy(out, clients)
	return out, true
}

// GetByPlatform gets clients for a specific platform
func (m *UserMap) GetByPlatform(userId string, platformId int) []*Client {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Client
	for _, c := range m.users[userId] {
		if c.PlatformId == platformId {
			out = append(out, c)
		}
	}
	return out
}

// HasConnection checks if user has any local connection
func (m *UserMap) HasConnection(userId string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users[userId]) > 0
}

// GetOnlineUserCount returns the number of locally connected users
func (m *UserMap) GetOnlineUserCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// GetOnlineConnCount returns the total number of local connections
func (m *UserMap) GetOnlineConnCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, clients := range m.users {
		count += len(clients)
	}
	return count
}

// IsOnline checks if user is online, consulting Redis so other gateway
// instances count too
func (m *UserMap) IsOnline(ctx context.Context, userId string) bool {
	if m.HasConnection(userId) {
		return true
	}

	if m.rdb != nil {
		key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
		exists, _ := m.rdb.Exists(ctx, key).Result()
		return exists > 0
	}

	return false
}

// setOnline marks user as online in Redis
func (m *UserMap) setOnline(ctx context.Context, userId string) {
	if m.rdb == nil {
		return
	}
	key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
	m.rdb.Set(ctx, key, "1", 60*time.Second)
}

// setOffline marks user as offline in Redis
func (m *UserMap) setOffline(ctx context.Context, userId string) {
	if m.rdb == nil {
		return
	}
	key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
	m.rdb.Del(ctx, key)
}

// RefreshOnlineStatus refreshes the online status TTL
func (m *UserMap) RefreshOnlineStatus(ctx context.Context, userId string) {
	if m.rdb == nil {
		return
	}
	if m.HasConnection(userId) {
		key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
		m.rdb.Expire(ctx, key, 60*time.Second)
	}
}
