package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"snag-frenzy/internal/prize"

	"github.com/rs/zerolog"
)

const (
	pngURL = "data:image/png;base64,iVBORw0KGgo="
	svgURL = "data:image/svg+xml;utf8,<svg xmlns='http://www.w3.org/2000/svg'/>"
)

func validSubmission(name string) Submission {
	return Submission{PlushName: name, PlushRarity: "rare", ImageData: pngURL}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		sub  Submission
		want []error
	}{
		{"png ok", validSubmission("Blob"), nil},
		{"svg ok", Submission{PlushName: "Blob", PlushRarity: "legendary", ImageData: svgURL}, nil},
		{"rarity any case", Submission{PlushName: "Blob", PlushRarity: "UltraRare", ImageData: pngURL}, nil},
		{"missing name", Submission{PlushName: "  ", PlushRarity: "rare", ImageData: pngURL}, []error{ErrNameRequired}},
		{"missing rarity", Submission{PlushName: "Blob", ImageData: pngURL}, []error{ErrRarityRequired}},
		{"unknown rarity", Submission{PlushName: "Blob", PlushRarity: "mythic", ImageData: pngURL}, []error{ErrRarityUnknown}},
		{"missing image", Submission{PlushName: "Blob", PlushRarity: "rare"}, []error{ErrImageRequired}},
		{"jpeg rejected", Submission{PlushName: "Blob", PlushRarity: "rare", ImageData: "data:image/jpeg;base64,AAAA"}, []error{ErrImageType}},
		{"plain url rejected", Submission{PlushName: "Blob", PlushRarity: "rare", ImageData: "https://x/y.png"}, []error{ErrImageType}},
		{"everything missing", Submission{}, []error{ErrNameRequired, ErrRarityRequired, ErrImageRequired}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.sub.Validate()
			if len(tc.want) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			for _, want := range tc.want {
				if !errors.Is(err, want) {
					t.Errorf("Validate() = %v, want %v", err, want)
				}
			}
		})
	}
}

func TestMediaType(t *testing.T) {
	cases := map[string]string{
		pngURL:                       "image/png",
		svgURL:                       "image/svg+xml",
		"data:IMAGE/PNG,xyz":         "image/png",
		"data:nothing":               "",
		"image/png;base64,iVBORw0KG": "",
	}
	for in, want := range cases {
		if got := MediaType(in); got != want {
			t.Errorf("MediaType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPrepare(t *testing.T) {
	now := time.Date(2024, 3, 9, 10, 0, 0, 0, time.FixedZone("x", 3600))
	a := Submission{PlushName: " Blob ", PlushRarity: "ULTRARARE", ImageData: pngURL}.Prepare(now)
	b := Submission{SubmitterName: "kit", PlushName: "Blob", PlushRarity: "rare", ImageData: pngURL}.Prepare(now)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids = %q %q, want distinct non-empty", a.ID, b.ID)
	}
	if a.SubmitterName != DefaultSubmitter || b.SubmitterName != "kit" {
		t.Errorf("submitters = %q %q", a.SubmitterName, b.SubmitterName)
	}
	if a.PlushName != "Blob" || a.PlushRarity != "ultraRare" {
		t.Errorf("normalised = %+v", a)
	}
	if !a.Timestamp.Equal(now) || a.Timestamp.Location() != time.UTC {
		t.Errorf("timestamp = %v", a.Timestamp)
	}
}

func TestToItems(t *testing.T) {
	subs := []Submission{
		{SubmitterName: "kit", PlushName: "Blob", PlushRarity: "rare", ImageData: pngURL},
		{SubmitterName: "ANON", PlushName: "Odd", PlushRarity: "mythic", ImageData: svgURL},
	}
	items := ToItems(subs)
	if len(items) != 2 {
		t.Fatalf("len = %d", len(items))
	}
	if it := items[0]; !it.IsCustom || it.Rarity != prize.Rare || it.Creator != "kit" || it.Key() != "Blob-kit" {
		t.Errorf("items[0] = %+v", it)
	}
	if items[1].Rarity != prize.RarityUnknown || items[1].Credited() {
		t.Errorf("items[1] = %+v", items[1])
	}
}

func TestFileStoreAddListDelete(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(filepath.Join(t.TempDir(), "data"), zerolog.Nop())

	if got, err := fs.List(ctx); err != nil || len(got) != 0 {
		t.Fatalf("empty List = %v, %v", got, err)
	}
	for _, name := range []string{"A", "B", "C"} {
		if _, err := fs.Add(ctx, validSubmission(name)); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}
	if err := fs.DeleteAt(ctx, 1); err != nil {
		t.Fatalf("DeleteAt: %v", err)
	}
	got, _ := fs.List(ctx)
	if len(got) != 2 || got[0].PlushName != "A" || got[1].PlushName != "C" {
		t.Errorf("after delete = %+v", got)
	}

	reopened := NewFileStore(filepath.Dir(fs.Path()), zerolog.Nop())
	if again, _ := reopened.List(ctx); len(again) != 2 {
		t.Errorf("reopened store has %d submissions", len(again))
	}
}

func TestFileStoreDeleteOutOfRange(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(t.TempDir(), zerolog.Nop())
	fs.Add(ctx, validSubmission("A"))
	for _, idx := range []int{-1, 1, 5} {
		if err := fs.DeleteAt(ctx, idx); !errors.Is(err, ErrNotFound) {
			t.Errorf("DeleteAt(%d) = %v, want ErrNotFound", idx, err)
		}
	}
}

func TestFileStoreCorruptReadsEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("[{oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	fs := NewFileStore(dir, zerolog.Nop())
	if got, err := fs.List(ctx); err != nil || len(got) != 0 {
		t.Fatalf("corrupt List = %v, %v", got, err)
	}
	if _, err := fs.Add(ctx, validSubmission("A")); err != nil {
		t.Fatalf("Add after corrupt: %v", err)
	}
	if got, _ := fs.List(ctx); len(got) != 1 {
		t.Errorf("store not recovered: %+v", got)
	}
}

type failingStore struct{ Store }

func (failingStore) List(context.Context) ([]Submission, error) {
	return nil, errors.New("disk on fire")
}

func TestLoadItemsDegrades(t *testing.T) {
	if got := LoadItems(context.Background(), failingStore{}, zerolog.Nop()); len(got) != 0 {
		t.Errorf("LoadItems on failure = %v", got)
	}
	if got := LoadItems(context.Background(), nil, zerolog.Nop()); got != nil {
		t.Errorf("LoadItems(nil) = %v", got)
	}

	fs := NewFileStore(t.TempDir(), zerolog.Nop())
	fs.Add(context.Background(), validSubmission("A"))
	if got := LoadItems(context.Background(), fs, zerolog.Nop()); len(got) != 1 || !got[0].IsCustom {
		t.Errorf("LoadItems = %+v", got)
	}
}
