package affiliate

import "time"

// CouponStatus is the lifecycle state of a coupon. The transition
// available -> used is one-way; coupons are never deleted.
type CouponStatus string

const (
	CouponAvailable CouponStatus = "available"
	CouponUsed      CouponStatus = "used"
)

// Coupon is a benefit issued to a member for a specific restaurant.
type Coupon struct {
	CouponID  string       `json:"couponId"`
	Name      string       `json:"name"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Status    CouponStatus `json:"status"`
}

// CouponSummary is derived from the coupon list and never stored on its own.
type CouponSummary struct {
	Available  int        `json:"available"`
	Total      int        `json:"total"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
}

// StampHistoryEntry records a single stamp accrual.
type StampHistoryEntry struct {
	ID        string    `json:"id"`
	AccruedAt time.Time `json:"accruedAt"`
	Delta     int       `json:"delta"`
	Note      string    `json:"note,omitempty"`
}

// RestaurantSummary is the listing projection of an affiliated restaurant.
type RestaurantSummary struct {
	RestaurantID  string        `json:"restaurantId"`
	Name          string        `json:"name"`
	Category      string        `json:"category"`
	Address       string        `json:"address"`
	DistanceKm    float64       `json:"distanceKm"`
	ImageURL      string        `json:"imageUrl"`
	StampCount    int           `json:"stampCount"`
	StampGoal     int           `json:"stampGoal"`
	CouponSummary CouponSummary `json:"couponSummary"`
	RecentUsage   *time.Time    `json:"recentUsage,omitempty"`
}

// RestaurantDetail is the full record behind a summary: coupons are ordered
// most-recent-issued first, stamp history most-recent first capped at
// HistoryCap entries.
type RestaurantDetail struct {
	RestaurantSummary
	Description  string              `json:"description,omitempty"`
	Coupons      []Coupon            `json:"coupons"`
	StampHistory []StampHistoryEntry `json:"stampHistory"`

	// Milestones are the stamp counts at which a coupon is issued, sorted
	// ascending. Empty means DefaultMilestones(StampGoal).
	Milestones []int `json:"-"`
}

// CategoryOption is a static filter entry shown as a chip in the UI.
type CategoryOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

// HistoryCap bounds the stamp history kept per restaurant; the oldest
// entries are evicted first.
const HistoryCap = 20

// CategoryAll is the sentinel filter that matches every restaurant.
const CategoryAll = "all"

// DefaultMilestones derives the accrual milestones for a stamp goal:
// the halfway point (rounded up) and the goal itself.
func DefaultMilestones(goal int) []int {
	half := (goal + 1) / 2
	if half <= 0 || half >= goal {
		return []int{goal}
	}
	return []int{half, goal}
}

// Clone returns a deep, independent copy of the detail so callers cannot
// reach stored state through the result.
func (d *RestaurantDetail) Clone() *RestaurantDetail {
	out := *d
	out.Coupons = append([]Coupon(nil), d.Coupons...)
	out.StampHistory = append([]StampHistoryEntry(nil), d.StampHistory...)
	out.Milestones = append([]int(nil), d.Milestones...)
	if d.RecentUsage != nil {
		t := *d.RecentUsage
		out.RecentUsage = &t
	}
	if d.CouponSummary.LastUsedAt != nil {
		t := *d.CouponSummary.LastUsedAt
		out.CouponSummary.LastUsedAt = &t
	}
	return &out
}

// RefreshCouponSummary recomputes the derived summary from the coupon list.
// LastUsedAt is the latest expiry among used coupons, compared
// chronologically.
func (d *RestaurantDetail) RefreshCouponSummary() {
	summary := CouponSummary{Total: len(d.Coupons)}
	var lastUsed time.Time
	for _, c := range d.Coupons {
		switch c.Status {
		case CouponAvailable:
			summary.Available++
		case CouponUsed:
			if c.ExpiresAt.After(lastUsed) {
				lastUsed = c.ExpiresAt
			}
		}
	}
	if !lastUsed.IsZero() {
		summary.LastUsedAt = &lastUsed
	}
	d.CouponSummary = summary
}

func (d *RestaurantDetail) milestones() []int {
	if len(d.Milestones) > 0 {
		return d.Milestones
	}
	return DefaultMilestones(d.StampGoal)
}
