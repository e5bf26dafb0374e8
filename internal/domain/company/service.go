package company

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	apiKeyPrefix     = "sk_live_"
	apiKeyShownChars = len(apiKeyPrefix) + 6
)

// Service handles company registration and approval
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create registers a pending company and returns its API key once.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*CreateResponse, error) {
	key, err := newAPIKey()
	if err != nil {
		return nil, fmt.Errorf("%w: generate api key: %v", ErrInternal, err)
	}

	now := s.now().UTC()
	c := &Company{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(req.Name),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Description:   req.Description,
		ContactPerson: req.ContactPerson,
		Status:        StatusPending,
		APIKeyHash:    HashAPIKey(key),
		APIKeyPrefix:  key[:apiKeyShownChars],
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	log.Info().Str("company_id", c.ID.String()).Str("email", c.Email).Msg("company registered")
	return &CreateResponse{Company: c, APIKey: key}, nil
}

// List returns companies, optionally filtered by status.
func (s *Service) List(ctx context.Context, status string) ([]Company, error) {
	st := Status(status)
	if st != "" && !st.IsValid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.List(ctx, st)
}

// Approve lets a pending or suspended company sell.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*Company, error) {
	return s.repo.Transition(ctx, id, []Status{StatusPending, StatusSuspended}, StatusApproved, s.now().UTC())
}

// Suspend stops an approved company from selling.
func (s *Service) Suspend(ctx context.Context, id uuid.UUID) (*Company, error) {
	return s.repo.Transition(ctx, id, []Status{StatusApproved}, StatusSuspended, s.now().UTC())
}

// Authenticate resolves an API key to an approved company.
func (s *Service) Authenticate(ctx context.Context, apiKey string) (*Company, error) {
	if !strings.HasPrefix(apiKey, apiKeyPrefix) {
		return nil, ErrCompanyNotFound
	}
	c, err := s.repo.GetByAPIKeyHash(ctx, HashAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if c.Status != StatusApproved {
		return nil, ErrNotApproved
	}
	return c, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// HashAPIKey returns the stored form of an API key.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func newAPIKey() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return apiKeyPrefix + hex.EncodeToString(b), nil
}
