package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
	pkgerrors "github.com/musical-basics/crowdfunding-page-test/pkg/errors"
)

// Service resolves customer identity by email for every pledge write path.
type Service interface {
	// Resolve finds the customer for email or creates one. Name is a
	// best-effort display value: first write wins, later names are ignored.
	Resolve(ctx context.Context, email, name string) (uuid.UUID, error)
}

type service struct {
	repo Repository
}

// NewService wires a customer resolver with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Resolve(ctx context.Context, email, name string) (uuid.UUID, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up customer")
	}
	if existing != nil {
		return existing.ID, nil
	}

	candidate := &models.Customer{
		ID:    uuid.New(),
		Email: email,
		Name:  name,
	}
	created, err := s.repo.CreateIfAbsent(ctx, candidate)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	if created {
		return candidate.ID, nil
	}

	// Lost the insert race: a concurrent request created the row between
	// our read and write. The unique email index guarantees the re-read
	// finds exactly one.
	winner, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "re-read customer after conflict")
	}
	if winner == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeInternal, "customer vanished after insert conflict")
	}
	return winner.ID, nil
}
