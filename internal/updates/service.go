package updates

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
	pkgerrors "github.com/musical-basics/crowdfunding-page-test/pkg/errors"
)

// backerDirectory answers which emails belong to customers with a succeeded
// pledge, keyed lowercase.
type backerDirectory interface {
	BackerEmails(ctx context.Context, campaignID string) (map[string]bool, error)
}

// FeedComment is a comment decorated with the verified-backer badge.
type FeedComment struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Content        string    `json:"content"`
	VerifiedBacker bool      `json:"verified_backer"`
	CreatedAt      time.Time `json:"created_at"`
}

// FeedUpdate is one community post with its comments.
type FeedUpdate struct {
	ID        uuid.UUID     `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Image     *string       `json:"image,omitempty"`
	Comments  []FeedComment `json:"comments"`
	CreatedAt time.Time     `json:"created_at"`
}

// CreateInput carries a new community post.
type CreateInput struct {
	CampaignID string
	Title      string
	Content    string
	Image      *string
}

// EditInput carries a partial edit of a post; nil fields stay untouched.
type EditInput struct {
	Title   *string
	Content *string
	Image   *string
}

// CommentInput carries a new comment on a post.
type CommentInput struct {
	Name    string
	Email   string
	Content string
}

// Service owns the community feed: posts, comments and the verified-backer
// badge derived from the pledge ledger.
type Service struct {
	repo    Repository
	backers backerDirectory
}

func NewService(repo Repository, backers backerDirectory) (*Service, error) {
	if repo == nil || backers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "updates: repository and backer directory are required")
	}
	return &Service{repo: repo, backers: backers}, nil
}

// Feed returns the campaign's updates newest first, badging every commenter
// whose email has a succeeded pledge.
func (s *Service) Feed(ctx context.Context, campaignID string) ([]FeedUpdate, error) {
	rows, err := s.repo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list updates")
	}
	backers, err := s.backers.BackerEmails(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	feed := make([]FeedUpdate, 0, len(rows))
	for _, row := range rows {
		update := FeedUpdate{
			ID:        row.ID,
			Title:     row.Title,
			Content:   row.Content,
			Image:     row.Image,
			Comments:  make([]FeedComment, 0, len(row.Comments)),
			CreatedAt: row.CreatedAt,
		}
		for _, comment := range row.Comments {
			update.Comments = append(update.Comments, FeedComment{
				ID:             comment.ID,
				Name:           comment.Name,
				Content:        comment.Content,
				VerifiedBacker: backers[strings.ToLower(strings.TrimSpace(comment.Email))],
				CreatedAt:      comment.CreatedAt,
			})
		}
		feed = append(feed, update)
	}
	return feed, nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Update, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and content are required")
	}
	update := &models.Update{
		ID:         uuid.New(),
		CampaignID: input.CampaignID,
		Title:      strings.TrimSpace(input.Title),
		Content:    input.Content,
		Image:      input.Image,
	}
	if err := s.repo.Create(ctx, update); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create update")
	}
	return update, nil
}

// Edit applies a partial update to a post.
func (s *Service) Edit(ctx context.Context, id uuid.UUID, input EditInput) (*models.Update, error) {
	fields := map[string]any{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title must not be blank")
		}
		fields["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		if strings.TrimSpace(*input.Content) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "content must not be blank")
		}
		fields["content"] = *input.Content
	}
	if input.Image != nil {
		fields["image"] = *input.Image
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "update not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to edit update")
	}
	update, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load update")
	}
	if update == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "update not found")
	}
	return update, nil
}

// Delete removes a post; its comments go with it via the FK cascade.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	update, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load update")
	}
	if update == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "update not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete update")
	}
	return nil
}

func (s *Service) AddComment(ctx context.Context, updateID uuid.UUID, input CommentInput) (*models.Comment, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and content are required")
	}
	update, err := s.repo.GetByID(ctx, updateID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load update")
	}
	if update == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "update not found")
	}
	comment := &models.Comment{
		ID:       uuid.New(),
		UpdateID: updateID,
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Content:  input.Content,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create comment")
	}
	return comment, nil
}
