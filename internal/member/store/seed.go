package store

import (
	"time"

	"github.com/google/uuid"

	memberstore "rxcampus/internal/member/store/member"

	"rxcampus/internal/member/models"
	"rxcampus/internal/member/secrets"
	"rxcampus/internal/platform/config"
	id "rxcampus/pkg/domain"
	"rxcampus/pkg/email"
)

// SeedDemoMember hashes the configured demo credentials and loads the single
// member this deployment authenticates.
func SeedDemoMember(ms *memberstore.InMemory, cfg config.AuthConfig) (*models.Member, error) {
	hash, err := secrets.Hash(cfg.DemoPassword)
	if err != nil {
		return nil, err
	}

	displayName := cfg.DemoDisplayName
	if displayName == "" {
		first, last := email.DeriveNameFromEmail(cfg.DemoEmail)
		displayName = first + " " + last
	}

	m := &models.Member{
		ID:           id.MemberID(uuid.New()),
		Email:        email.Normalize(cfg.DemoEmail),
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         "member",
		EnrolledPrograms: []id.Slug{
			"mtm-certification",
			"immunization-delivery",
		},
		MemberSince: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
	}
	ms.Add(m)
	return m, nil
}
