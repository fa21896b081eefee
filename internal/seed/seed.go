package seed

import (
	"fmt"
	"log"
	"time"

	"github.com/BarishY/Astroverse/internal/apod"
	"github.com/BarishY/Astroverse/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers       int
	NumCollections int
	// MaxDays spreads collection creation timestamps over the trailing window.
	MaxDays int
	// SkipBcrypt stores plaintext passwords; dev fast mode only.
	SkipBcrypt  bool
	ShouldClean bool
}

// apodWindowDays is how many trailing days of APOD anchor posts to seed.
const apodWindowDays = 30

// Seed populates the database with demo data: users, a follow mesh,
// APOD posts over the trailing month, collections holding them, and
// interactions on top.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d collections...", opts.NumUsers, opts.NumCollections)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db, opts)

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	if err := createFollowMesh(f, users); err != nil {
		return fmt.Errorf("failed to create follow mesh: %w", err)
	}

	posts, err := createApodPosts(f)
	if err != nil {
		return fmt.Errorf("failed to create apod posts: %w", err)
	}
	log.Printf("✓ %d apod posts created", len(posts))

	collections, err := createCollections(f, users, posts, opts.NumCollections)
	if err != nil {
		return fmt.Errorf("failed to create collections: %w", err)
	}
	log.Printf("✓ %d collections created", len(collections))

	if err := createInteractions(f, users, collections, posts); err != nil {
		return fmt.Errorf("failed to create interactions: %w", err)
	}

	if err := createConversations(f, users); err != nil {
		return fmt.Errorf("failed to create conversations: %w", err)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// clearData deletes seedable rows table by table so it also works on
// sqlite, which has no TRUNCATE.
func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	targets := []any{
		&models.Message{},
		&models.CollectionCommentLike{},
		&models.CollectionComment{},
		&models.CollectionLike{},
		&models.ApodPostComment{},
		&models.ApodPostLike{},
		&models.CollectionItem{},
		&models.Collection{},
		&models.ApodPost{},
		&models.Follow{},
		&models.User{},
	}
	for _, target := range targets {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(target).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include some specific users for consistency if cleaning
	if count >= 3 {
		for _, name := range []string{"barish", "stargazer", "test"} {
			name := name
			user, err := f.CreateUser(func(u *models.User) {
				u.Username = name
				u.Email = fmt.Sprintf("%s@example.com", name)
				u.Bio = "One of the OGs."
			})
			if err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	return users, nil
}

// createFollowMesh wires each user to roughly a fifth of the others.
func createFollowMesh(f *Factory, users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	for _, follower := range users {
		targets := len(users) / 5
		if targets < 1 {
			targets = 1
		}
		for n := 0; n < targets; n++ {
			followee := users[f.rng.Intn(len(users))]
			if followee.ID == follower.ID {
				continue
			}
			// Unique index makes repeats fail; skip them.
			_ = f.CreateFollow(follower, followee)
		}
	}
	return nil
}

func createApodPosts(f *Factory) ([]*models.ApodPost, error) {
	posts := make([]*models.ApodPost, 0, apodWindowDays)
	today := time.Now().UTC()
	for i := 0; i < apodWindowDays; i++ {
		date := today.AddDate(0, 0, -i).Format(apod.DateLayout)
		post, err := f.EnsureApodPost(date)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createCollections(f *Factory, users []*models.User, posts []*models.ApodPost, count int) ([]*models.Collection, error) {
	collections := make([]*models.Collection, 0, count)
	for i := 0; i < count; i++ {
		owner := users[f.rng.Intn(len(users))]
		collection, err := f.CreateCollection(owner)
		if err != nil {
			return nil, err
		}

		items := f.rng.Intn(6) + 1
		seen := make(map[string]bool, items)
		for n := 0; n < items; n++ {
			post := posts[f.rng.Intn(len(posts))]
			if seen[post.PostID] {
				continue
			}
			seen[post.PostID] = true
			if _, err := f.AddItem(collection, post); err != nil {
				return nil, err
			}
		}
		collections = append(collections, collection)
	}
	return collections, nil
}

func createInteractions(f *Factory, users []*models.User, collections []*models.Collection, posts []*models.ApodPost) error {
	for _, collection := range collections {
		if collection.Privacy != models.CollectionPrivacyPublic {
			continue
		}
		for _, user := range users {
			if user.ID == collection.OwnerID {
				continue
			}
			if f.rng.Float32() < 0.2 {
				_ = f.CreateCollectionLike(user, collection)
			}
			if f.rng.Float32() < 0.08 {
				if _, err := f.CreateCollectionComment(user, collection); err != nil {
					return err
				}
			}
		}
	}

	for _, post := range posts {
		for _, user := range users {
			if f.rng.Float32() < 0.1 {
				_ = f.CreateApodPostLike(user, post)
			}
			if f.rng.Float32() < 0.04 {
				if _, err := f.CreateApodPostComment(user, post); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// createConversations starts a short DM thread between random pairs.
func createConversations(f *Factory, users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	threads := len(users) / 2
	for n := 0; n < threads; n++ {
		a := users[f.rng.Intn(len(users))]
		b := users[f.rng.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}
		turns := f.rng.Intn(5) + 2
		for i := 0; i < turns; i++ {
			from, to := a, b
			if i%2 == 1 {
				from, to = b, a
			}
			if _, err := f.CreateMessage(from, to); err != nil {
				return err
			}
		}
	}
	return nil
}
