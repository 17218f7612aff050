package affiliate

import (
	"fmt"
	"time"
)

// Categories returns the static category chips shown in the affiliate page.
func Categories() []CategoryOption {
	return []CategoryOption{
		{ID: "all", Label: "전체", Icon: "⭐"},
		{ID: "korean", Label: "한식", Icon: "🍚"},
		{ID: "cafe", Label: "카페", Icon: "☕"},
		{ID: "japanese", Label: "일식", Icon: "🍣"},
		{ID: "western", Label: "양식", Icon: "🥗"},
		{ID: "dessert", Label: "디저트", Icon: "🧁"},
	}
}

// Seed returns the reference affiliate catalog. Coupon summaries are
// recomputed from the coupon lists so the derivability invariant holds from
// the first read.
func Seed() []*RestaurantDetail {
	now := time.Now()
	restaurants := []*RestaurantDetail{
		{
			RestaurantSummary: RestaurantSummary{
				RestaurantID: "rest-001",
				Name:         "한강 뷰 한식당",
				Category:     "한식",
				Address:      "서울시 영등포구 여의도동 123-45",
				DistanceKm:   1.2,
				ImageURL:     "https://via.placeholder.com/320x180?text=Korean+Restaurant",
				StampCount:   7,
				StampGoal:    10,
			},
			Description: "한강 야경을 감상하며 정갈한 한식 코스를 즐길 수 있는 제휴 매장입니다.",
		},
		{
			RestaurantSummary: RestaurantSummary{
				RestaurantID: "rest-002",
				Name:         "카페 달콤",
				Category:     "카페",
				Address:      "서울시 마포구 합정동 11-22",
				DistanceKm:   3.4,
				ImageURL:     "https://via.placeholder.com/320x180?text=Cafe",
				StampCount:   3,
				StampGoal:    10,
			},
			Description: "스페셜티 커피와 다양한 디저트를 즐길 수 있는 합정 카페.",
		},
		{
			RestaurantSummary: RestaurantSummary{
				RestaurantID: "rest-003",
				Name:         "스시 미도리",
				Category:     "일식",
				Address:      "서울시 강남구 역삼동 55-7",
				DistanceKm:   5.9,
				ImageURL:     "https://via.placeholder.com/320x180?text=Sushi",
				StampCount:   9,
				StampGoal:    10,
			},
			Description: "프리미엄 오마카세를 제공하는 일식 제휴 레스토랑.",
		},
	}
	for _, d := range restaurants {
		d.Coupons = seedCoupons(d.RestaurantID, now)
		d.StampHistory = seedHistory(d.StampCount, now)
		if len(d.StampHistory) > 0 {
			t := d.StampHistory[0].AccruedAt
			d.RecentUsage = &t
		}
		d.RefreshCouponSummary()
	}
	return restaurants
}

func seedCoupons(restaurantID string, now time.Time) []Coupon {
	return []Coupon{
		{
			CouponID:  restaurantID + "-cp-1",
			Name:      "10% 할인 쿠폰",
			ExpiresAt: now.AddDate(0, 0, 7),
			Status:    CouponAvailable,
		},
		{
			CouponID:  restaurantID + "-cp-2",
			Name:      "음료 무료 쿠폰",
			ExpiresAt: now.AddDate(0, 0, 14),
			Status:    CouponUsed,
		},
	}
}

// seedHistory builds count accrual entries, most recent first, one per day
// back from now.
func seedHistory(count int, now time.Time) []StampHistoryEntry {
	entries := make([]StampHistoryEntry, 0, count)
	for i := 0; i < count; i++ {
		note := "방문 적립"
		if i%2 == 1 {
			note = "이벤트 적립"
		}
		entries = append(entries, StampHistoryEntry{
			ID:        fmt.Sprintf("stamp-%d", count-i),
			AccruedAt: now.AddDate(0, 0, -(i + 1)),
			Delta:     1,
			Note:      note,
		})
	}
	return entries
}
