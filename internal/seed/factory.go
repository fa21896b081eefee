// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/BarishY/Astroverse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCollection constructs and persists a collection for the given
// owner with a random name and privacy level.
func (f *Factory) CreateCollection(owner *models.User, overrides ...func(*models.Collection)) (*models.Collection, error) {
	privacies := []models.CollectionPrivacy{
		models.CollectionPrivacyPublic,
		models.CollectionPrivacyPublic,
		models.CollectionPrivacyFollowers,
		models.CollectionPrivacyPrivate,
	}
	collection := &models.Collection{
		OwnerID: owner.ID,
		Name:    gofakeit.HipsterSentence(3),
		Privacy: privacies[f.rng.Intn(len(privacies))],
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	collection.CreatedAt = time.Now().
		Add(-time.Duration(f.rng.Intn(maxDays)) * 24 * time.Hour).
		Add(-time.Duration(f.rng.Intn(24)) * time.Hour)

	for _, override := range overrides {
		override(collection)
	}

	if err := f.db.Create(collection).Error; err != nil {
		return nil, err
	}
	return collection, nil
}

// EnsureApodPost persists the anchor row for an APOD date if it does
// not exist yet, with a plausible image snapshot.
func (f *Factory) EnsureApodPost(date string) (*models.ApodPost, error) {
	post := &models.ApodPost{
		PostID:             date,
		Title:              gofakeit.HipsterSentence(4),
		URL:                fmt.Sprintf("https://apod.nasa.gov/apod/image/%s.jpg", gofakeit.UUID()),
		MediaType:          "image",
		FirstInteractionAt: time.Now(),
	}
	err := f.db.Where(models.ApodPost{PostID: date}).
		Attrs(*post).
		FirstOrCreate(post).Error
	if err != nil {
		return nil, err
	}
	return post, nil
}

// AddItem saves an APOD post into a collection and refreshes the
// collection's cover image the way the toggle endpoint does.
func (f *Factory) AddItem(collection *models.Collection, post *models.ApodPost) (*models.CollectionItem, error) {
	item := &models.CollectionItem{
		CollectionID: collection.ID,
		PostID:       post.PostID,
		Type:         "apod",
		AddedAt:      time.Now(),
	}
	if err := f.db.Create(item).Error; err != nil {
		return nil, err
	}
	if post.MediaType == "image" && post.URL != "" {
		if err := f.db.Model(&models.Collection{}).Where("id = ?", collection.ID).
			Update("cover_image", post.URL).Error; err != nil {
			return nil, err
		}
	}
	return item, nil
}

// CreateFollow persists a follow edge between two users.
func (f *Factory) CreateFollow(follower, followee *models.User) error {
	return f.db.Create(&models.Follow{
		FollowerID: follower.ID,
		FolloweeID: followee.ID,
	}).Error
}

// CreateCollectionLike persists a like from `user` on `collection`.
func (f *Factory) CreateCollectionLike(user *models.User, collection *models.Collection) error {
	return f.db.Create(&models.CollectionLike{
		UserID:       user.ID,
		CollectionID: collection.ID,
	}).Error
}

// CreateCollectionComment persists a comment on a collection.
func (f *Factory) CreateCollectionComment(user *models.User, collection *models.Collection, overrides ...func(*models.CollectionComment)) (*models.CollectionComment, error) {
	comment := &models.CollectionComment{
		UserID:       user.ID,
		CollectionID: collection.ID,
		Text:         gofakeit.Sentence(8),
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateApodPostLike persists a like from `user` on an APOD post.
func (f *Factory) CreateApodPostLike(user *models.User, post *models.ApodPost) error {
	return f.db.Create(&models.ApodPostLike{
		UserID: user.ID,
		PostID: post.PostID,
	}).Error
}

// CreateApodPostComment persists a comment on an APOD post.
func (f *Factory) CreateApodPostComment(user *models.User, post *models.ApodPost) (*models.ApodPostComment, error) {
	comment := &models.ApodPostComment{
		UserID: user.ID,
		PostID: post.PostID,
		Text:   gofakeit.Sentence(8),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateMessage persists a direct message between two users.
func (f *Factory) CreateMessage(from, to *models.User, overrides ...func(*models.Message)) (*models.Message, error) {
	message := &models.Message{
		ConversationKey: models.ConversationKey(from.ID, to.ID),
		FromID:          from.ID,
		ToID:            to.ID,
		Text:            gofakeit.Sentence(10),
	}

	for _, override := range overrides {
		override(message)
	}

	if err := f.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}
