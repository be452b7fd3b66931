// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"mural/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options tunes the generated dataset.
type Options struct {
	// MaxDays spreads created_at timestamps over the past N days.
	MaxDays int
}

// Seeder populates the database with a coherent demo dataset: users,
// items across all moderation states, comments, and engagement with
// counters that match the rows.
type Seeder struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Seeder{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes every seeded table. Order matters for FK integrity.
func (s *Seeder) ClearAll() error {
	tables := []string{"likes", "favorites", "comments", "items", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	log.Println("Database cleared")
	return nil
}

var seedCategories = []string{"nature", "architecture", "abstract", "animals", "space", "urban"}

// SeedUsers creates n users with a fixed demo password. The first user is
// always a moderator so the review queue is reachable out of the box.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("DemoPassword12!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Username:    fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:       fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			Password:    string(hash),
			DisplayName: gofakeit.Name(),
			Bio:         gofakeit.Sentence(8),
			AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
			IsModerator: i == 0,
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))
	return users, nil
}

// SeedItems creates n items spread across uploaders and moderation states.
// Roughly 70% approved, 20% pending, 10% rejected.
func (s *Seeder) SeedItems(users []*models.User, n int) ([]*models.Item, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to attach items to")
	}

	var moderator *models.User
	for _, u := range users {
		if u.IsModerator {
			moderator = u
			break
		}
	}

	items := make([]*models.Item, 0, n)
	for i := 0; i < n; i++ {
		uploader := users[s.rng.Intn(len(users))]
		seedID := gofakeit.UUID()
		item := &models.Item{
			Title:        gofakeit.Sentence(4),
			Description:  gofakeit.Paragraph(1, 2, 6, "\n"),
			Category:     seedCategories[s.rng.Intn(len(seedCategories))],
			Tags:         fmt.Sprintf("%s,%s", gofakeit.Word(), gofakeit.Word()),
			ImageURL:     fmt.Sprintf("https://picsum.photos/seed/%s/1920/1080", seedID),
			ThumbnailURL: fmt.Sprintf("https://picsum.photos/seed/%s/320/180", seedID),
			Width:        1920,
			Height:       1080,
			FileSize:     int64(s.rng.Intn(4_000_000) + 200_000),
			UploaderID:   uploader.ID,
			Status:       models.ItemStatusPending,
			ViewCount:    s.rng.Intn(5000),
			CreatedAt:    s.pastTimestamp(),
		}

		switch roll := s.rng.Intn(10); {
		case roll < 7:
			item.Status = models.ItemStatusApproved
			if moderator != nil {
				item.ApprovedByID = &moderator.ID
			}
		case roll < 9:
			// stays pending
		default:
			item.Status = models.ItemStatusRejected
			item.RejectionReason = gofakeit.Sentence(6)
		}

		if err := s.db.Create(item).Error; err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	log.Printf("Seeded %d items", len(items))
	return items, nil
}

// SeedComments attaches up to maxPerItem comments to approved items.
func (s *Seeder) SeedComments(users []*models.User, items []*models.Item, maxPerItem int) error {
	total := 0
	for _, item := range items {
		if item.Status != models.ItemStatusApproved {
			continue
		}
		for i := 0; i < s.rng.Intn(maxPerItem+1); i++ {
			comment := &models.Comment{
				Content:   gofakeit.Sentence(10),
				AuthorID:  users[s.rng.Intn(len(users))].ID,
				ItemID:    item.ID,
				CreatedAt: s.pastTimestamp(),
			}
			if err := s.db.Create(comment).Error; err != nil {
				return err
			}
			total++
		}
	}
	log.Printf("Seeded %d comments", total)
	return nil
}

// SeedEngagement creates likes and favorites and sets the denormalized
// counters to the exact row counts it produced.
func (s *Seeder) SeedEngagement(users []*models.User, items []*models.Item) error {
	for _, item := range items {
		if item.Status != models.ItemStatusApproved {
			continue
		}

		likeCount := 0
		favoriteCount := 0
		for _, user := range users {
			if s.rng.Intn(100) < 30 {
				like := &models.Like{UserID: user.ID, ItemID: item.ID}
				if err := s.db.Create(like).Error; err != nil {
					return err
				}
				likeCount++
			}
			if s.rng.Intn(100) < 10 {
				fav := &models.Favorite{UserID: user.ID, ItemID: item.ID}
				if err := s.db.Create(fav).Error; err != nil {
					return err
				}
				favoriteCount++
			}
		}

		if err := s.db.Model(&models.Item{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"like_count":     likeCount,
				"favorite_count": favoriteCount,
			}).Error; err != nil {
			return err
		}
	}
	log.Println("Seeded engagement")
	return nil
}

// Run seeds the full dataset.
func (s *Seeder) Run(numUsers, numItems int) error {
	users, err := s.SeedUsers(numUsers)
	if err != nil {
		return err
	}
	items, err := s.SeedItems(users, numItems)
	if err != nil {
		return err
	}
	if err := s.SeedComments(users, items, 5); err != nil {
		return err
	}
	return s.SeedEngagement(users, items)
}

func (s *Seeder) pastTimestamp() time.Time {
	daysBack := s.rng.Intn(s.opts.MaxDays)
	hoursBack := s.rng.Intn(24)
	minsBack := s.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}
