package dedupe

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/varoOP/mediadb/internal/media"
)

func game(title, source, id string) media.Record {
	return &media.Game{Base: media.Base{Title: title, DataSource: source, ID: id}}
}

func TestCheckDupes(t *testing.T) {
	tests := []struct {
		name       string
		records    []media.Record
		wantCount  int
		wantTitles []string
	}{
		{
			name:       "no duplicates",
			records:    []media.Record{game("A", "Steam API", "1"), game("B", "Steam API", "2")},
			wantTitles: []string{"A", "B"},
		},
		{
			name:       "same id across sources",
			records:    []media.Record{game("A", "Steam API", "1"), game("A", "IGDB", "1")},
			wantTitles: []string{"A", "A"},
		},
		{
			name:       "last occurrence wins in first position",
			records:    []media.Record{game("Old", "Steam API", "1"), game("B", "Steam API", "2"), game("New", "Steam API", "1")},
			wantCount:  1,
			wantTitles: []string{"New", "B"},
		},
		{
			name:       "missing ids are kept",
			records:    []media.Record{game("A", "Steam API", ""), game("B", "Steam API", "")},
			wantTitles: []string{"A", "B"},
		},
	}

	svc := NewService(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, deduped, err := svc.CheckDupes(context.Background(), tt.records)
			if err != nil {
				t.Fatalf("CheckDupes() error = %v", err)
			}
			if count != tt.wantCount {
				t.Errorf("count = %d, want %d", count, tt.wantCount)
			}
			if len(deduped) != len(tt.wantTitles) {
				t.Fatalf("got %d records, want %d", len(deduped), len(tt.wantTitles))
			}
			for i, r := range deduped {
				if r.Common().Title != tt.wantTitles[i] {
					t.Errorf("record %d = %q, want %q", i, r.Common().Title, tt.wantTitles[i])
				}
			}
		})
	}
}

func TestFind(t *testing.T) {
	records := []media.Record{
		game("Elden Ring", "Steam API", "1245620"),
		game("Elden Ring", "Steam API", "1245620"),
		game("Hades", "Steam API", "1145360"),
	}
	dupes := Find(records)
	if len(dupes) != 1 {
		t.Fatalf("Find() = %+v", dupes)
	}
	if dupes[0].Identity != "Steam API:1245620" || len(dupes[0].Indexes) != 2 {
		t.Errorf("duplicate = %+v", dupes[0])
	}
}
