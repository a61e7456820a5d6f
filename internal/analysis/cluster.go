// Package analysis derives aggregate views of the experiment log.
package analysis

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/kiranshivaraju/brewlog/internal/brew"
	"github.com/kiranshivaraju/brewlog/pkg/models"
)

// Group is the set of experiments sharing shot type, filter type and coffee type.
type Group struct {
	ShotType   string   `json:"shotType"`
	FilterType string   `json:"filterType"`
	CoffeeType string   `json:"coffeeType"`
	Count      int      `json:"count"`
	Rated      int      `json:"rated"`
	AvgRating  *float64 `json:"avgRating"`
	BestRating *int     `json:"bestRating"`
	BestID     *int64   `json:"bestId"`
	LastDate   string   `json:"lastDate"`
}

// Cluster groups the log by matrix cell. Returns groups sorted by
// (Count DESC, AvgRating DESC). Returns empty slice for empty input (never nil).
func Cluster(log []models.Experiment) []Group {
	if len(log) == 0 {
		return []Group{}
	}

	type key struct{ shot, filter, coffee string }
	type state struct {
		g      Group
		sum    int
		bestID int64
	}

	groups := make(map[key]*state)
	order := make([]key, 0)

	for _, e := range log {
		k := key{e.ShotType, e.FilterType, brew.CoffeeTypeFor(e.GrindSetting)}
		st, ok := groups[k]
		if !ok {
			st = &state{g: Group{ShotType: k.shot, FilterType: k.filter, CoffeeType: k.coffee}}
			groups[k] = st
			order = append(order, k)
		}
		st.g.Count++
		st.g.LastDate = e.Date
		if e.TasteRating != nil {
			r := *e.TasteRating
			st.g.Rated++
			st.sum += r
			if st.g.BestRating == nil || r > *st.g.BestRating {
				st.g.BestRating = &r
				st.bestID = e.ID
			}
		}
	}

	out := make([]Group, 0, len(groups))
	for _, k := range order {
		st := groups[k]
		if st.g.Rated > 0 {
			avg := float64(st.sum) / float64(st.g.Rated)
			st.g.AvgRating = &avg
			id := st.bestID
			st.g.BestID = &id
		}
		out = append(out, st.g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return avgOf(out[i]) > avgOf(out[j])
	})

	return out
}

func avgOf(g Group) float64 {
	if g.AvgRating == nil {
		return 0
	}
	return *g.AvgRating
}

// Fingerprint returns a stable hash of the log contents. Two logs with the
// same experiments in the same order share a fingerprint.
func Fingerprint(log []models.Experiment) string {
	b, err := json.Marshal(log)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(b)
	return fmt.Sprintf("%x", hash)
}
