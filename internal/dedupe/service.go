package dedupe

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/varoOP/mediadb/internal/media"
)

// Duplicate is a (dataSource, id) pair that occurs more than once in a batch.
type Duplicate struct {
	Identity  string
	Summaries []string
	Indexes   []int
}

type Service interface {
	CheckDupes(ctx context.Context, records []media.Record) (int, []media.Record, error)
}

type service struct {
	log zerolog.Logger
}

func NewService(log zerolog.Logger) Service {
	return &service{
		log: log.With().Str("module", "dedupe").Logger(),
	}
}

// CheckDupes removes repeated records from a batch, keeping the last
// occurrence of each (dataSource, id) pair at the position of the first. It
// returns the number of records dropped.
func (s *service) CheckDupes(ctx context.Context, records []media.Record) (int, []media.Record, error) {
	dupes := Find(records)
	if len(dupes) == 0 {
		return 0, records, nil
	}

	drop := make(map[int]struct{})
	for _, d := range dupes {
		s.log.Debug().
			Str("identity", d.Identity).
			Strs("summaries", d.Summaries).
			Msg("Found duplicate record")
		for _, i := range d.Indexes[1:] {
			drop[i] = struct{}{}
		}
	}

	deduped := make([]media.Record, 0, len(records)-len(drop))
	first := make(map[string]int)
	for i, r := range records {
		if err := ctx.Err(); err != nil {
			return 0, records, err
		}
		if r == nil {
			continue
		}
		id := media.Identity(r)
		if _, ok := drop[i]; ok {
			deduped[first[id]] = r
			continue
		}
		first[id] = len(deduped)
		deduped = append(deduped, r)
	}

	s.log.Info().Int("dupe_count", len(drop)).Msg("Found duplicates")
	return len(drop), deduped, nil
}

// Find groups the records of a batch that share a data source and id.
// Records without an id are never duplicates.
func Find(records []media.Record) []Duplicate {
	byIdentity := make(map[string]*Duplicate)
	var order []string
	for i, r := range records {
		if r == nil || r.Common().ID == "" {
			continue
		}
		id := media.Identity(r)
		d, ok := byIdentity[id]
		if !ok {
			d = &Duplicate{Identity: id}
			byIdentity[id] = d
			order = append(order, id)
		}
		d.Summaries = append(d.Summaries, r.Summary())
		d.Indexes = append(d.Indexes, i)
	}

	var dupes []Duplicate
	for _, id := range order {
		if d := byIdentity[id]; len(d.Indexes) > 1 {
			dupes = append(dupes, *d)
		}
	}
	sort.SliceStable(dupes, func(i, j int) bool {
		return dupes[i].Identity < dupes[j].Identity
	})
	return dupes
}
