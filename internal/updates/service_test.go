package updates

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/musical-basics/crowdfunding-page-test/pkg/db/models"
	pkgerrors "github.com/musical-basics/crowdfunding-page-test/pkg/errors"
)

type fakeRepository struct {
	updates  map[uuid.UUID]*models.Update
	comments []*models.Comment
}

func newFakeRepo(seed ...*models.Update) *fakeRepository {
	repo := &fakeRepository{updates: map[uuid.UUID]*models.Update{}}
	for _, update := range seed {
		repo.updates[update.ID] = update
	}
	return repo
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, update *models.Update) error {
	f.updates[update.ID] = update
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Update, error) {
	return f.updates[id], nil
}

func (f *fakeRepository) ListByCampaign(ctx context.Context, campaignID string) ([]models.Update, error) {
	var out []models.Update
	for _, update := range f.updates {
		out = append(out, *update)
	}
	return out, nil
}

func (f *fakeRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	update, ok := f.updates[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if title, ok := fields["title"].(string); ok {
		update.Title = title
	}
	if content, ok := fields["content"].(string); ok {
		update.Content = content
	}
	if image, ok := fields["image"].(string); ok {
		update.Image = &image
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.updates, id)
	return nil
}

func (f *fakeRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	f.comments = append(f.comments, comment)
	return nil
}

type fakeBackers struct {
	emails map[string]bool
}

func (f *fakeBackers) BackerEmails(ctx context.Context, campaignID string) (map[string]bool, error) {
	return f.emails, nil
}

func TestFeedBadgesVerifiedBackers(t *testing.T) {
	post := &models.Update{
		ID:         uuid.New(),
		CampaignID: "dreamplay-one",
		Title:      "Production started",
		Content:    "Boards are on the line.",
		Comments: []models.Comment{
			{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", Content: "Congrats!"},
			{ID: uuid.New(), Name: "Drifter", Email: "drifter@example.com", Content: "Cool."},
			{ID: uuid.New(), Name: "Shouty", Email: "ADA@EXAMPLE.COM", Content: "Me again."},
		},
	}
	svc, err := NewService(newFakeRepo(post), &fakeBackers{emails: map[string]bool{"ada@example.com": true}})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	feed, err := svc.Feed(context.Background(), "dreamplay-one")
	if err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	if len(feed) != 1 || len(feed[0].Comments) != 3 {
		t.Fatalf("unexpected feed shape: %+v", feed)
	}
	badges := map[string]bool{}
	for _, comment := range feed[0].Comments {
		badges[comment.Name] = comment.VerifiedBacker
	}
	if !badges["Ada"] || badges["Drifter"] {
		t.Fatalf("wrong badges: %v", badges)
	}
	if !badges["Shouty"] {
		t.Fatal("badge lookup must be case-insensitive")
	}
}

func TestAddCommentUnknownUpdate(t *testing.T) {
	svc, _ := NewService(newFakeRepo(), &fakeBackers{})
	_, err := svc.AddComment(context.Background(), uuid.New(), CommentInput{Name: "Ada", Content: "hi"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestAddCommentNormalizesEmail(t *testing.T) {
	post := &models.Update{ID: uuid.New(), Title: "T", Content: "C"}
	repo := newFakeRepo(post)
	svc, _ := NewService(repo, &fakeBackers{})

	comment, err := svc.AddComment(context.Background(), post.ID, CommentInput{
		Name:    "  Ada ",
		Email:   " Ada@Example.COM ",
		Content: "hello",
	})
	if err != nil {
		t.Fatalf("AddComment error: %v", err)
	}
	if comment.Name != "Ada" || comment.Email != "ada@example.com" {
		t.Fatalf("unexpected normalization: %+v", comment)
	}
	if len(repo.comments) != 1 {
		t.Fatal("expected the comment to be stored")
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := NewService(newFakeRepo(), &fakeBackers{})
	_, err := svc.Create(context.Background(), CreateInput{CampaignID: "dreamplay-one", Title: " ", Content: "x"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEditUpdatesOnlyProvidedFields(t *testing.T) {
	post := &models.Update{ID: uuid.New(), CampaignID: "dreamplay-one", Title: "Week one", Content: "Molds arrived."}
	svc, _ := NewService(newFakeRepo(post), &fakeBackers{})

	title := "Week one, revised"
	got, err := svc.Edit(context.Background(), post.ID, EditInput{Title: &title})
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got.Title != "Week one, revised" {
		t.Fatalf("expected edited title, got %q", got.Title)
	}
	if got.Content != "Molds arrived." {
		t.Fatalf("content must stay untouched, got %q", got.Content)
	}
}

func TestEditValidatesAndMapsMissing(t *testing.T) {
	post := &models.Update{ID: uuid.New(), CampaignID: "dreamplay-one", Title: "Week one", Content: "Molds arrived."}
	svc, _ := NewService(newFakeRepo(post), &fakeBackers{})

	blank := " "
	_, err := svc.Edit(context.Background(), post.ID, EditInput{Title: &blank})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	title := "New"
	_, err = svc.Edit(context.Background(), uuid.New(), EditInput{Title: &title})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
