package contractor

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"jobmarket/internal/pkg/cache"
)

// DefaultCacheTTL matches the mobile client's 5-minute listing cache.
const DefaultCacheTTL = 5 * time.Minute

// Filter is the full set of listing filters. Services/Locations are matched
// case-insensitively against the profile's specialties and service areas.
type Filter struct {
	Search        string   `json:"search,omitempty"`
	Services      []string `json:"services,omitempty"`
	Locations     []string `json:"locations,omitempty"`
	MinRating     float64  `json:"min_rating,omitempty"`
	AvailableOnly bool     `json:"available_only,omitempty"`
	SortBy        string   `json:"sort_by,omitempty"`
	SortOrder     string   `json:"sort_order,omitempty"`
	Limit         int      `json:"limit,omitempty"`
	Offset        int      `json:"offset,omitempty"`
}

// View is a profile enriched with the computed live-availability flag.
type View struct {
	Profile
	Rating               float64 `json:"rating"`
	IsCurrentlyAvailable bool    `json:"is_currently_available"`
}

// ListResult is what listing endpoints return and what gets cached.
type ListResult struct {
	Contractors []View `json:"contractors"`
	TotalCount  int64  `json:"total_count"`
}

// Service owns contractor listing. The cache store is injected so tests can
// swap or clear it; production wires either the in-memory or redis store.
type Service struct {
	repo     Repository
	cache    cache.Store
	cacheTTL time.Duration
	now      func() time.Time
}

func NewService(repo Repository, store cache.Store) *Service {
	return &Service{
		repo:     repo,
		cache:    store,
		cacheTTL: DefaultCacheTTL,
		now:      time.Now,
	}
}

// List returns filtered contractors with live availability computed per row.
func (s *Service) List(ctx context.Context, f Filter) (*ListResult, error) {
	key := cacheKey(f)
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var cached ListResult
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
			log.Printf("contractor_cache_decode_error key=%s", key)
		}
	}

	profiles, _, err := s.repo.List(ctx, ListQuery{
		Search:    f.Search,
		MinRating: f.MinRating,
		SortBy:    f.SortBy,
		SortDesc:  f.SortOrder != "asc",
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]View, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		if !matchesServices(p, f.Services) {
			continue
		}
		if !matchesLocations(p, f.Locations) {
			continue
		}
		available := IsCurrentlyAvailable(p, now)
		if f.AvailableOnly && !available {
			continue
		}
		views = append(views, View{
			Profile:              *p,
			Rating:               p.Rating(),
			IsCurrentlyAvailable: available,
		})
	}

	total := int64(len(views))
	views = paginate(views, f.Offset, f.Limit)

	result := &ListResult{Contractors: views, TotalCount: total}
	if s.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			s.cache.Set(ctx, key, raw, s.cacheTTL)
		}
	}
	return result, nil
}

// Get returns one contractor with the live availability flag.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &View{
		Profile:              *p,
		Rating:               p.Rating(),
		IsCurrentlyAvailable: IsCurrentlyAvailable(p, s.now()),
	}, nil
}

// SetAvailability updates a contractor's availability fields and invalidates
// nothing: cached listings age out on their own TTL.
func (s *Service) SetAvailability(ctx context.Context, id, status, message string, busyUntil *time.Time) error {
	switch status {
	case StatusAvailable, StatusBusy, StatusOffline:
	default:
		return ErrInvalidStatus
	}
	return s.repo.UpdateAvailability(ctx, id, status, message, busyUntil)
}

func cacheKey(f Filter) string {
	raw, _ := json.Marshal(f)
	return "contractors:" + string(raw)
}

func matchesServices(p *Profile, services []string) bool {
	if len(services) == 0 {
		return true
	}
	skills := p.Specialties
	if len(skills) == 0 {
		skills = p.SpecialtyTags
	}
	for _, want := range services {
		for _, have := range skills {
			if strings.EqualFold(want, have) {
				return true
			}
		}
	}
	return false
}

func matchesLocations(p *Profile, locations []string) bool {
	if len(locations) == 0 {
		return true
	}
	for _, want := range locations {
		for _, area := range p.ServiceAreas {
			if strings.EqualFold(want, area) {
				return true
			}
		}
		if p.RegionText != "" && strings.EqualFold(want, p.RegionText) {
			return true
		}
	}
	return false
}

func paginate(views []View, offset, limit int) []View {
	if offset >= len(views) {
		return []View{}
	}
	views = views[offset:]
	if limit > 0 && limit < len(views) {
		views = views[:limit]
	}
	return views
}
