package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/courtbook/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.Profile = "alice"
	cfg.SessionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestPutAndGet() {
	err := s.storage.Put(s.ctx, map[string]string{
		"identity":   `{"email":"a@example.com","role":"user"}`,
		"credential": "tok",
	})
	s.Require().NoError(err)

	v, err := s.storage.Get(s.ctx, "credential")
	s.Require().NoError(err)
	s.Equal("tok", v)
}

func (s *StorageSuite) TestKeysAreNamespacedByProfile() {
	_ = s.storage.Put(s.ctx, map[string]string{"credential": "tok"})

	s.True(s.mini.Exists("courtbook:alice:credential"))
	s.False(s.mini.Exists("credential"))
}

func (s *StorageSuite) TestPutAppliesTTL() {
	_ = s.storage.Put(s.ctx, map[string]string{"credential": "tok"})

	s.Equal(time.Hour, s.mini.TTL("courtbook:alice:credential"))

	s.mini.FastForward(2 * time.Hour)
	_, err := s.storage.Get(s.ctx, "credential")
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *StorageSuite) TestGetNotFound() {
	_, err := s.storage.Get(s.ctx, "nonexistent")
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *StorageSuite) TestDelete() {
	_ = s.storage.Put(s.ctx, map[string]string{"identity": "{}", "credential": "tok"})

	s.Require().NoError(s.storage.Delete(s.ctx, "identity", "credential"))
	s.Require().NoError(s.storage.Delete(s.ctx))

	_, err := s.storage.Get(s.ctx, "identity")
	s.ErrorIs(err, storage.ErrNotFound)
}
