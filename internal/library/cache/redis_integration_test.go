//go:build integration

package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rxcampus/internal/library/cache"
	"rxcampus/internal/library/models"
	id "rxcampus/pkg/domain"
	"rxcampus/pkg/platform/sentinel"
	"rxcampus/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.Redis
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.cache = cache.NewRedis(s.redis.Client)
}

func (s *RedisCacheSuite) SetupTest() {
	ctx := context.Background()
	err := s.redis.FlushAll(ctx)
	s.Require().NoError(err)
}

func makeSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Items: []models.Resource{
			{
				ID:       "recPMAAAAAAAAAA01",
				Category: id.CategoryProtocolManuals,
				Title:    "MTM Service Protocol Manual",
				FileURL:  "https://cdn.test/resources/protocol-manuals/recPMAAAAAAAAAA01/mtm-protocol.pdf",
				Tags:     []string{"mtm", "workflow"},
			},
			{
				ID:       "recMBAAAAAAAAAA01",
				Category: id.CategoryMedicalBilling,
				Title:    "CPT Codes for Pharmacist Services",
			},
		},
		FailedCategories: []string{"patient-handouts"},
		FetchedAt:        time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC),
	}
}

func (s *RedisCacheSuite) TestMissIsNotFound() {
	ctx := context.Background()

	_, err := s.cache.GetSnapshot(ctx)
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *RedisCacheSuite) TestRoundTrip() {
	ctx := context.Background()
	snap := makeSnapshot()

	err := s.cache.SetSnapshot(ctx, snap, 5*time.Minute)
	s.Require().NoError(err)

	got, err := s.cache.GetSnapshot(ctx)
	s.Require().NoError(err)
	s.Require().Len(got.Items, 2)
	s.Equal(snap.Items[0].ID, got.Items[0].ID)
	s.Equal(snap.Items[0].Category, got.Items[0].Category)
	s.Equal(snap.Items[0].Tags, got.Items[0].Tags)
	s.Equal(snap.FailedCategories, got.FailedCategories)
	s.True(snap.FetchedAt.Equal(got.FetchedAt))
}

func (s *RedisCacheSuite) TestTTLExpiry() {
	ctx := context.Background()

	err := s.cache.SetSnapshot(ctx, makeSnapshot(), 200*time.Millisecond)
	s.Require().NoError(err)

	_, err = s.cache.GetSnapshot(ctx)
	s.Require().NoError(err)

	time.Sleep(400 * time.Millisecond)

	_, err = s.cache.GetSnapshot(ctx)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *RedisCacheSuite) TestPurge() {
	ctx := context.Background()

	err := s.cache.SetSnapshot(ctx, makeSnapshot(), 5*time.Minute)
	s.Require().NoError(err)

	err = s.cache.Purge(ctx)
	s.Require().NoError(err)

	_, err = s.cache.GetSnapshot(ctx)
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *RedisCacheSuite) TestPurgeEmptyIsNoop() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Purge(ctx))
}
