package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coggiri/affiliates-backend/internal/modules/affiliate"
)

type fakeGateway struct {
	categories  func(ctx context.Context) ([]affiliate.CategoryOption, error)
	restaurants func(ctx context.Context, categoryID string) ([]affiliate.RestaurantSummary, error)
	detail      func(ctx context.Context, id string) (*affiliate.RestaurantDetail, error)
	collect     func(ctx context.Context, restaurantID, pin string) (*affiliate.RestaurantDetail, error)
	redeem      func(ctx context.Context, restaurantID, couponID, pin string) (*affiliate.RestaurantDetail, error)
}

func (f *fakeGateway) Categories(ctx context.Context) ([]affiliate.CategoryOption, error) {
	if f.categories == nil {
		return affiliate.Categories(), nil
	}
	return f.categories(ctx)
}

func (f *fakeGateway) Restaurants(ctx context.Context, categoryID string) ([]affiliate.RestaurantSummary, error) {
	if f.restaurants == nil {
		return nil, nil
	}
	return f.restaurants(ctx, categoryID)
}

func (f *fakeGateway) Detail(ctx context.Context, id string) (*affiliate.RestaurantDetail, error) {
	if f.detail == nil {
		return detailFor(id), nil
	}
	return f.detail(ctx, id)
}

func (f *fakeGateway) CollectStamp(ctx context.Context, restaurantID, pin string) (*affiliate.RestaurantDetail, error) {
	return f.collect(ctx, restaurantID, pin)
}

func (f *fakeGateway) RedeemCoupon(ctx context.Context, restaurantID, couponID, pin string) (*affiliate.RestaurantDetail, error) {
	return f.redeem(ctx, restaurantID, couponID, pin)
}

func summaryFor(id, category string) affiliate.RestaurantSummary {
	return affiliate.RestaurantSummary{
		RestaurantID: id,
		Name:         "매장 " + id,
		Category:     category,
		StampCount:   3,
		StampGoal:    10,
	}
}

func detailFor(id string) *affiliate.RestaurantDetail {
	return &affiliate.RestaurantDetail{RestaurantSummary: summaryFor(id, "한식")}
}

func TestLoadCategoriesSelectsAllAndLoadsList(t *testing.T) {
	gw := &fakeGateway{
		restaurants: func(ctx context.Context, categoryID string) ([]affiliate.RestaurantSummary, error) {
			require.Empty(t, categoryID, "the all-filter must be sent as an empty filter")
			return []affiliate.RestaurantSummary{summaryFor("r1", "한식"), summaryFor("r2", "카페")}, nil
		},
	}
	c := NewController(gw)
	c.LoadCategories(context.Background())

	state := c.Snapshot()
	require.Len(t, state.Categories, 6)
	require.Equal(t, affiliate.CategoryAll, state.SelectedCategoryID)
	require.Len(t, state.Restaurants, 2)
	require.Equal(t, "r1", state.SelectedRestaurantID)
	require.NotNil(t, state.Detail)
	require.Equal(t, "r1", state.Detail.RestaurantID)
	require.False(t, state.LoadingList)
	require.False(t, state.LoadingDetail)
}

func TestLoadCategoriesFailureDoesNotBlockList(t *testing.T) {
	gw := &fakeGateway{
		categories: func(ctx context.Context) ([]affiliate.CategoryOption, error) {
			return nil, errors.New("backend down")
		},
		restaurants: func(ctx context.Context, categoryID string) ([]affiliate.RestaurantSummary, error) {
			return []affiliate.RestaurantSummary{summaryFor("r1", "한식")}, nil
		},
	}
	c := NewController(gw)
	c.LoadCategories(context.Background())

	state := c.Snapshot()
	require.Empty(t, state.Categories)
	require.NotNil(t, state.Feedback)
	require.Equal(t, FeedbackError, state.Feedback.Type)
	require.Equal(t, msgCategoriesFailed, state.Feedback.Message)
	// browsing still works
	require.Len(t, state.Restaurants, 1)
	require.Equal(t, "r1", state.SelectedRestaurantID)
}

func TestStaleListFetchIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	gw := &fakeGateway{
		restaurants: func(ctx context.Context, categoryID string) ([]affiliate.RestaurantSummary, error) {
			if categoryID == "" {
				close(started)
				<-release
				return []affiliate.RestaurantSummary{summaryFor("stale", "한식")}, nil
			}
			return []affiliate.RestaurantSummary{summaryFor("fresh", "카페")}, nil
		},
	}
	c := NewController(gw)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.SelectCategory(context.Background(), affiliate.CategoryAll)
	}()

	<-started
	c.SelectCategory(context.Background(), "cafe")
	close(release)
	wg.Wait()

	state := c.Snapshot()
	require.Equal(t, "cafe", state.SelectedCategoryID)
	require.Len(t, state.Restaurants, 1)
	require.Equal(t, "fresh", state.Restaurants[0].RestaurantID)
	require.Equal(t, "fresh", state.SelectedRestaurantID)
}

func TestSelectionPreservationPolicy(t *testing.T) {
	lists := map[string][]affiliate.RestaurantSummary{
		"":       {summaryFor("r1", "한식"), summaryFor("r2", "카페")},
		"cafe":   {summaryFor("r2", "카페"), summaryFor("r3", "카페")},
		"korean": {summaryFor("r1", "한식")},
		"empty":  {},
	}
	gw := &fakeGateway{
		restaurants: func(ctx context.Context, categoryID string) ([]affiliate.RestaurantSummary, error) {
			return lists[categoryID], nil
		},
	}
	c := NewController(gw)
	ctx := context.Background()

	c.SelectCategory(ctx, affiliate.CategoryAll)
	c.SelectRestaurant(ctx, "r2")
	require.Equal(t, "r2", c.Snapshot().SelectedRestaurantID)

	// r2 still listed: selection preserved
	c.SelectCategory(ctx, "cafe")
	require.Equal(t, "r2", c.Snapshot().SelectedRestaurantID)

	// r2 gone: first item selected
	c.SelectCategory(ctx, "korean")
	require.Equal(t, "r1", c.Snapshot().SelectedRestaurantID)

	// empty list clears selection and detail
	c.SelectCategory(ctx, "empty")
	state := c.Snapshot()
	require.Empty(t, state.SelectedRestaurantID)
	require.Nil(t, state.Detail)
}

func TestDetailLoadFailureKeepsListInteractive(t *testing.T) {
	gw := &fakeGateway{
		restaurants: func(ctx context.Context, categoryID string) ([]affiliate.RestaurantSummary, error) {
			return []affiliate.RestaurantSummary{summaryFor("r1", "한식")}, nil
		},
		detail: func(ctx context.Context, id string) (*affiliate.RestaurantDetail, error) {
			return nil, errors.New("backend down")
		},
	}
	c := NewController(gw)
	c.SelectCategory(context.Background(), affiliate.CategoryAll)

	state := c.Snapshot()
	require.Len(t, state.Restaurants, 1)
	require.Nil(t, state.Detail)
	require.False(t, state.LoadingDetail)
	require.NotNil(t, state.Feedback)
	require.Equal(t, msgDetailFailed, state.Feedback.Message)
}

func TestCollectStampSuccessReconcilesList(t *testing.T) {
	updated := detailFor("r1")
	updated.StampCount = 4
	gw := &fakeGateway{
		restaurants: func(ctx context.Context, categoryID string) ([]affiliate.RestaurantSummary, error) {
			return []affiliate.RestaurantSummary{summaryFor("r1", "한식"), summaryFor("r2", "카페")}, nil
		},
		collect: func(ctx context.Context, restaurantID, pin string) (*affiliate.RestaurantDetail, error) {
			require.Equal(t, "r1", restaurantID)
			require.Equal(t, "0000", pin)
			return updated, nil
		},
	}
	c := NewController(gw)
	ctx := context.Background()
	c.SelectCategory(ctx, affiliate.CategoryAll)

	require.NoError(t, c.CollectStamp(ctx, "0000"))

	state := c.Snapshot()
	require.False(t, state.Stamping)
	require.Equal(t, 4, state.Detail.StampCount)
	require.Equal(t, 4, state.Restaurants[0].StampCount)
	require.Equal(t, 3, state.Restaurants[1].StampCount, "other entries untouched")
	require.NotNil(t, state.Feedback)
	require.Equal(t, FeedbackSuccess, state.Feedback.Type)
	require.Equal(t, msgStampSuccess, state.Feedback.Message)
}

func TestCollectStampFailureLeavesStateIntact(t *testing.T) {
	gwErr := &affiliate.GatewayError{Code: affiliate.CodeUnauthorized, Message: "관리자 PIN이 올바르지 않습니다."}
	gw := &fakeGateway{
		restaurants: func(ctx context.Context, categoryID string) ([]affiliate.RestaurantSummary, error) {
			return []affiliate.RestaurantSummary{summaryFor("r1", "한식")}, nil
		},
		collect: func(ctx context.Context, restaurantID, pin string) (*affiliate.RestaurantDetail, error) {
			return nil, gwErr
		},
	}
	c := NewController(gw)
	ctx := context.Background()
	c.SelectCategory(ctx, affiliate.CategoryAll)
	before := c.Snapshot()

	err := c.CollectStamp(ctx, "9999")
	require.ErrorIs(t, err, gwErr)

	state := c.Snapshot()
	require.False(t, state.Stamping, "busy flag cleared on failure")
	require.Equal(t, before.Detail, state.Detail)
	require.Equal(t, before.Restaurants, state.Restaurants)
	require.NotNil(t, state.Feedback)
	require.Equal(t, FeedbackError, state.Feedback.Type)
	require.Equal(t, gwErr.Message, state.Feedback.Message)
}

func TestRedeemCouponSuccess(t *testing.T) {
	updated := detailFor("r1")
	updated.CouponSummary = affiliate.CouponSummary{Available: 0, Total: 1}
	gw := &fakeGateway{
		restaurants: func(ctx context.Context, categoryID string) ([]affiliate.RestaurantSummary, error) {
			return []affiliate.RestaurantSummary{summaryFor("r1", "한식")}, nil
		},
		redeem: func(ctx context.Context, restaurantID, couponID, pin string) (*affiliate.RestaurantDetail, error) {
			require.Equal(t, "cp-1", couponID)
			return updated, nil
		},
	}
	c := NewController(gw)
	ctx := context.Background()
	c.SelectCategory(ctx, affiliate.CategoryAll)

	require.NoError(t, c.RedeemCoupon(ctx, "cp-1", "0000"))

	state := c.Snapshot()
	require.False(t, state.RedeemingCoupon)
	require.Equal(t, 0, state.Detail.CouponSummary.Available)
	require.Equal(t, 0, state.Restaurants[0].CouponSummary.Available)
	require.Equal(t, msgCouponSuccess, state.Feedback.Message)
}

func TestMutationsIgnoredWithoutDetail(t *testing.T) {
	c := NewController(&fakeGateway{})
	require.NoError(t, c.CollectStamp(context.Background(), "0000"))
	require.NoError(t, c.RedeemCoupon(context.Background(), "cp-1", "0000"))
	require.Nil(t, c.Snapshot().Feedback)
}

func TestFeedbackAutoDismissAndSupersession(t *testing.T) {
	c := NewController(&fakeGateway{})
	c.dismissTTL = 40 * time.Millisecond

	c.mu.Lock()
	c.setFeedbackLocked(FeedbackError, "first")
	c.mu.Unlock()

	time.Sleep(15 * time.Millisecond)
	c.mu.Lock()
	c.setFeedbackLocked(FeedbackSuccess, "second")
	c.mu.Unlock()

	// past the first toast's deadline; the second must survive its timer
	time.Sleep(30 * time.Millisecond)
	state := c.Snapshot()
	require.NotNil(t, state.Feedback)
	require.Equal(t, "second", state.Feedback.Message)

	require.Eventually(t, func() bool {
		return c.Snapshot().Feedback == nil
	}, time.Second, 5*time.Millisecond)
}

func TestReconcileIsPure(t *testing.T) {
	list := []affiliate.RestaurantSummary{summaryFor("r1", "한식"), summaryFor("r2", "카페")}
	updated := detailFor("r2")
	updated.StampCount = 9

	out := reconcile(list, updated)
	require.Equal(t, 9, out[1].StampCount)
	require.Equal(t, 3, list[1].StampCount, "input slice must not be mutated")
	require.Equal(t, list[0], out[0])
}
