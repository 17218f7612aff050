package session

import "github.com/coggiri/affiliates-backend/internal/modules/affiliate"

// reconcile produces a new list in which the entry matching the updated
// detail carries the detail's summary fields; every other entry is
// untouched. Pure: the input slice is not mutated.
func reconcile(list []affiliate.RestaurantSummary, updated *affiliate.RestaurantDetail) []affiliate.RestaurantSummary {
	out := make([]affiliate.RestaurantSummary, len(list))
	for i, item := range list {
		if item.RestaurantID == updated.RestaurantID {
			out[i] = updated.RestaurantSummary
		} else {
			out[i] = item
		}
	}
	return out
}
