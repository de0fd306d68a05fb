// Package store keeps player-submitted prizes.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"snag-frenzy/internal/prize"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultSubmitter is recorded when a submission names nobody.
const DefaultSubmitter = "ANON"

// Validation and lookup errors.
var (
	ErrNameRequired   = errors.New("plush name is required")
	ErrRarityRequired = errors.New("plush rarity is required")
	ErrRarityUnknown  = errors.New("plush rarity is not recognised")
	ErrImageRequired  = errors.New("image is required")
	ErrImageType      = errors.New("image must be an SVG or PNG data URL")
	ErrNotFound       = errors.New("submission not found")
)

// Allowed image types.
var imageTypes = map[string]bool{
	"image/svg+xml": true,
	"image/png":     true,
}

// Submission is one custom prize as sent by a player.
type Submission struct {
	ID             string    `json:"id"`
	SubmitterName  string    `json:"submitterName"`
	SubmitterEmail string    `json:"submitterEmail,omitempty"`
	PlushName      string    `json:"plushName"`
	PlushRarity    string    `json:"plushRarity"`
	Description    string    `json:"description,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	ImageData      string    `json:"imageData"`
}

// Store persists submissions in insertion order.
type Store interface {
	List(ctx context.Context) ([]Submission, error)
	Add(ctx context.Context, s Submission) (Submission, error)
	// DeleteAt removes the submission at position index of List.
	DeleteAt(ctx context.Context, index int) error
}

// Validate checks the required fields and the image type.
func (s Submission) Validate() error {
	var errs []error
	if strings.TrimSpace(s.PlushName) == "" {
		errs = append(errs, ErrNameRequired)
	}
	if strings.TrimSpace(s.PlushRarity) == "" {
		errs = append(errs, ErrRarityRequired)
	} else if _, ok := prize.ParseRarity(s.PlushRarity); !ok {
		errs = append(errs, ErrRarityUnknown)
	}
	if s.ImageData == "" {
		errs = append(errs, ErrImageRequired)
	} else if !imageTypes[MediaType(s.ImageData)] {
		errs = append(errs, ErrImageType)
	}
	return errors.Join(errs...)
}

// Prepare fills the server-assigned fields: a fresh ID, the submit time and
// the default submitter. Text fields are trimmed.
func (s Submission) Prepare(now time.Time) Submission {
	s.ID = uuid.NewString()
	s.Timestamp = now.UTC()
	s.SubmitterName = strings.TrimSpace(s.SubmitterName)
	if s.SubmitterName == "" {
		s.SubmitterName = DefaultSubmitter
	}
	s.PlushName = strings.TrimSpace(s.PlushName)
	s.SubmitterEmail = strings.TrimSpace(s.SubmitterEmail)
	if r, ok := prize.ParseRarity(s.PlushRarity); ok {
		s.PlushRarity = r.String()
	}
	return s
}

// MediaType returns the MIME type of a data URL, lower-cased, or "" when the
// string is not a data URL.
func MediaType(dataURL string) string {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return ""
	}
	end := strings.IndexAny(rest, ";,")
	if end < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(rest[:end]))
}

// Item converts a submission into a custom prize.
func (s Submission) Item() prize.Item {
	r, _ := prize.ParseRarity(s.PlushRarity)
	return prize.Item{
		Name:        s.PlushName,
		ImageRef:    s.ImageData,
		Rarity:      r,
		IsCustom:    true,
		Creator:     s.SubmitterName,
		SubmittedAt: s.Timestamp,
	}
}

// ToItems converts submissions, keeping order.
func ToItems(subs []Submission) []prize.Item {
	out := make([]prize.Item, 0, len(subs))
	for _, s := range subs {
		out = append(out, s.Item())
	}
	return out
}

// LoadItems lists st as prizes. Any failure is logged and yields no custom
// prizes, so a broken store never stops a cabinet.
func LoadItems(ctx context.Context, st Store, log zerolog.Logger) []prize.Item {
	if st == nil {
		return nil
	}
	subs, err := st.List(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("custom prizes unavailable")
		return nil
	}
	return ToItems(subs)
}

func indexError(index, n int) error {
	return fmt.Errorf("index %d of %d: %w", index, n, ErrNotFound)
}
