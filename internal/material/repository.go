// Package material holds the in-memory list of instructor reading material
// and validates new entries from the add-material form.
package material

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/readiz/internal/logger"
	"github.com/abhisek/readiz/internal/reading"
)

// Repository is the shared material list. It lives only as long as the
// process. Safe for concurrent use.
type Repository struct {
	mu    sync.RWMutex
	items []reading.ReadingMaterial
	now   func() time.Time
	newID func() string
}

// NewRepository creates a repository holding seed, in order.
func NewRepository(seed ...reading.ReadingMaterial) *Repository {
	return &Repository{
		items: append([]reading.ReadingMaterial(nil), seed...),
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// List returns a snapshot of all materials in the order they were added.
func (r *Repository) List() []reading.ReadingMaterial {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]reading.ReadingMaterial(nil), r.items...)
}

// Len returns the number of materials.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Get returns the material with id.
func (r *Repository) Get(id string) (reading.ReadingMaterial, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.items {
		if m.ID == id {
			return m, true
		}
	}
	return reading.ReadingMaterial{}, false
}

// Add validates d and appends it. Validation failures are *FormError and
// leave the list unchanged.
func (r *Repository) Add(d Draft) (reading.ReadingMaterial, error) {
	content, err := d.Validate()
	if err != nil {
		return reading.ReadingMaterial{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m := reading.ReadingMaterial{
		ID:        r.newID(),
		Title:     strings.TrimSpace(d.Title),
		Content:   content,
		CreatedAt: r.now(),
	}
	r.items = append(r.items, m)

	logger.Get().Debug("material added",
		zap.String("id", m.ID),
		zap.String("kind", string(content.Kind())),
		zap.Int("total", len(r.items)))
	return m, nil
}

// SampleID is the ID of the built-in material.
const SampleID = "sample-honeybees"

// Sample returns the built-in material so a fresh install has something
// to read.
func Sample() reading.ReadingMaterial {
	return reading.ReadingMaterial{
		ID:        SampleID,
		Title:     "The Secret Language of Honeybees",
		Content:   reading.TextContent(samplePassage),
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

const samplePassage = `When a honeybee discovers a rich patch of flowers, she does not keep the news to herself. She flies back to the hive and performs a dance on the honeycomb, and her sisters crowd around to read it.

The dance is called the waggle dance. The bee runs in a straight line while shaking her body from side to side, then loops back and repeats the run. The direction of the straight run tells the other bees which way to fly, measured as an angle from the position of the sun. The length of the run tells them how far away the flowers are: the longer the waggle, the longer the trip.

Karl von Frisch, an Austrian scientist, spent years decoding this behavior in the middle of the twentieth century. Many of his colleagues doubted that insects could share such precise information. He placed feeding dishes at measured distances and watched marked bees, and the results matched his predictions again and again. In 1973 he shared the Nobel Prize for his work.

Scientists now know the dance is only part of the conversation. Bees also pass samples of nectar to one another and release scents that help recruits find the right flowers. Together these signals let a colony of tens of thousands of insects behave almost like a single, thinking creature, sending its workers exactly where the food is.`
