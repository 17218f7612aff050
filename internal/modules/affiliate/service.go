package affiliate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a referenced restaurant does not exist.
// A missing coupon id on an existing restaurant is not an error (see
// UseCoupon).
var ErrNotFound = errors.New("restaurant not found")

const (
	couponValidityDays = 30

	accrualNote     = "관리자 적립"
	milestoneCoupon = "추가 적립 쿠폰"
	goalTierCoupon  = "무료 메뉴 쿠폰"
)

// Service is the accrual engine: listing and detail reads plus the two
// stamp-card mutations. Returned details are always independent copies.
type Service interface {
	ListCategories(ctx context.Context) []CategoryOption
	ListRestaurants(ctx context.Context, categoryID string) []RestaurantSummary
	GetDetail(ctx context.Context, id string) (*RestaurantDetail, error)
	IncrementStamp(ctx context.Context, id string) (*RestaurantDetail, error)
	UseCoupon(ctx context.Context, restaurantID, couponID string) (*RestaurantDetail, error)
}

type service struct {
	// mu serializes read-modify-write sequences against the store; the
	// HTTP layer calls in from concurrent requests.
	mu         sync.Mutex
	repo       Repository
	categories []CategoryOption
	now        func() time.Time
	newID      func() string
}

// NewService builds the accrual engine over the given catalog store.
func NewService(repo Repository) Service { return newService(repo) }

func newService(repo Repository) *service {
	return &service{
		repo:       repo,
		categories: Categories(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func (s *service) ListCategories(ctx context.Context) []CategoryOption {
	return append([]CategoryOption(nil), s.categories...)
}

// ListRestaurants projects stored records to summaries in insertion order.
// An empty filter or CategoryAll returns everything. The filter matches the
// restaurant's category id or label, mirroring the chip values the UI sends.
func (s *service) ListRestaurants(ctx context.Context, categoryID string) []RestaurantSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	label := categoryID
	for _, c := range s.categories {
		if c.ID == categoryID {
			label = c.Label
			break
		}
	}

	all := categoryID == "" || categoryID == CategoryAll
	summaries := make([]RestaurantSummary, 0)
	for _, d := range s.repo.List() {
		if !all && d.Category != categoryID && d.Category != label {
			continue
		}
		summaries = append(summaries, d.Clone().RestaurantSummary)
	}
	return summaries
}

func (s *service) GetDetail(ctx context.Context, id string) (*RestaurantDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.repo.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return d.Clone(), nil
}

// IncrementStamp adds one stamp, clamped at the goal. Every call records a
// history entry even when the count saturates. When the resulting count
// lands exactly on a milestone a single coupon is issued, the goal
// milestone yielding the higher-tier kind.
func (s *service) IncrementStamp(ctx context.Context, id string) (*RestaurantDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.repo.Get(id)
	if !ok {
		return nil, ErrNotFound
	}

	if d.StampCount < d.StampGoal {
		d.StampCount++
	}

	now := s.now()
	entry := StampHistoryEntry{
		ID:        s.newID(),
		AccruedAt: now,
		Delta:     1,
		Note:      accrualNote,
	}
	d.StampHistory = append([]StampHistoryEntry{entry}, d.StampHistory...)
	if len(d.StampHistory) > HistoryCap {
		d.StampHistory = d.StampHistory[:HistoryCap]
	}

	for _, m := range d.milestones() {
		if d.StampCount != m {
			continue
		}
		name := milestoneCoupon
		if m == d.StampGoal {
			name = goalTierCoupon
		}
		coupon := Coupon{
			CouponID:  s.newID(),
			Name:      name,
			ExpiresAt: now.AddDate(0, 0, couponValidityDays),
			Status:    CouponAvailable,
		}
		d.Coupons = append([]Coupon{coupon}, d.Coupons...)
		break
	}

	d.RefreshCouponSummary()
	accrued := entry.AccruedAt
	d.RecentUsage = &accrued

	return d.Clone(), nil
}

// UseCoupon marks a coupon used. A coupon id that does not exist on the
// restaurant is a silent no-op returning the unchanged detail; so is using
// an already-used coupon.
func (s *service) UseCoupon(ctx context.Context, restaurantID, couponID string) (*RestaurantDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.repo.Get(restaurantID)
	if !ok {
		return nil, ErrNotFound
	}

	for i := range d.Coupons {
		if d.Coupons[i].CouponID != couponID {
			continue
		}
		d.Coupons[i].Status = CouponUsed
		d.RefreshCouponSummary()
		now := s.now()
		d.RecentUsage = &now
		break
	}

	return d.Clone(), nil
}
