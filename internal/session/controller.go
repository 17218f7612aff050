// Package session drives one affiliate-browsing session: it orchestrates
// gateway calls for lifecycle and user intents, holds the UI-facing state,
// and maps gateway failures to feedback toasts.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coggiri/affiliates-backend/internal/modules/affiliate"
)

// Gateway is the read-model provider the controller talks to. Calls may
// block; the controller never assumes synchronous completion.
type Gateway interface {
	Categories(ctx context.Context) ([]affiliate.CategoryOption, error)
	Restaurants(ctx context.Context, categoryID string) ([]affiliate.RestaurantSummary, error)
	Detail(ctx context.Context, id string) (*affiliate.RestaurantDetail, error)
	CollectStamp(ctx context.Context, restaurantID, pin string) (*affiliate.RestaurantDetail, error)
	RedeemCoupon(ctx context.Context, restaurantID, couponID, pin string) (*affiliate.RestaurantDetail, error)
}

// FeedbackType distinguishes success toasts from error toasts.
type FeedbackType string

const (
	FeedbackSuccess FeedbackType = "success"
	FeedbackError   FeedbackType = "error"
)

// Feedback is a transient toast message.
type Feedback struct {
	Type    FeedbackType
	Message string
}

// State is the UI-facing session state.
type State struct {
	Categories           []affiliate.CategoryOption
	SelectedCategoryID   string
	Restaurants          []affiliate.RestaurantSummary
	SelectedRestaurantID string
	Detail               *affiliate.RestaurantDetail
	LoadingList          bool
	LoadingDetail        bool
	Stamping             bool
	RedeemingCoupon      bool
	Feedback             *Feedback
}

const (
	feedbackTTL = 2500 * time.Millisecond

	msgCategoriesFailed = "카테고리 정보를 불러오지 못했습니다."
	msgListFailed       = "제휴 매장 목록을 불러오지 못했습니다."
	msgDetailFailed     = "매장 정보를 불러오지 못했습니다."
	msgStampSuccess     = "스탬프가 적립되었습니다."
	msgCouponSuccess    = "쿠폰 사용이 완료되었습니다."
)

// Controller is the page-level state machine. Each fetch concern carries a
// generation counter; a response is applied only while its generation is
// still current, so a stale response can never overwrite newer state.
type Controller struct {
	gw Gateway

	mu          sync.Mutex
	state       State
	listGen     uint64
	detailGen   uint64
	feedbackSeq uint64
	dismissTTL  time.Duration
}

func NewController(gw Gateway) *Controller {
	return &Controller{
		gw:         gw,
		state:      State{SelectedCategoryID: affiliate.CategoryAll},
		dismissTTL: feedbackTTL,
	}
}

// Snapshot returns a copy of the current state for rendering.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.state
	if c.state.Feedback != nil {
		f := *c.state.Feedback
		snap.Feedback = &f
	}
	return snap
}

// LoadCategories fetches the category chips and kicks off the initial list
// load. A categories failure surfaces a toast but does not block browsing;
// the list still loads with the current selection.
func (c *Controller) LoadCategories(ctx context.Context) {
	categories, err := c.gw.Categories(ctx)

	c.mu.Lock()
	if err != nil {
		logrus.WithError(err).Error("load categories")
		c.setFeedbackLocked(FeedbackError, msgCategoriesFailed)
		initial := c.state.SelectedCategoryID
		c.mu.Unlock()
		c.SelectCategory(ctx, initial)
		return
	}
	c.state.Categories = categories
	initial := ""
	for _, cat := range categories {
		if cat.ID == affiliate.CategoryAll {
			initial = cat.ID
			break
		}
	}
	if initial == "" && len(categories) > 0 {
		initial = categories[0].ID
	}
	if initial == "" {
		initial = affiliate.CategoryAll
	}
	c.mu.Unlock()

	c.SelectCategory(ctx, initial)
}

// SelectCategory switches the category filter and reloads the list.
// Selection preservation: the previously selected restaurant stays selected
// when it appears in the new list; otherwise the first item is selected, or
// none when the list is empty, which also clears the detail panel.
func (c *Controller) SelectCategory(ctx context.Context, categoryID string) {
	c.mu.Lock()
	c.state.SelectedCategoryID = categoryID
	c.listGen++
	gen := c.listGen
	c.state.LoadingList = true
	c.mu.Unlock()

	filter := categoryID
	if filter == affiliate.CategoryAll {
		filter = ""
	}
	restaurants, err := c.gw.Restaurants(ctx, filter)

	c.mu.Lock()
	if gen != c.listGen {
		// A newer selection superseded this fetch; discard the result.
		c.mu.Unlock()
		return
	}
	c.state.LoadingList = false
	if err != nil {
		logrus.WithError(err).Error("load restaurants")
		c.setFeedbackLocked(FeedbackError, msgListFailed)
		c.mu.Unlock()
		return
	}
	c.state.Restaurants = restaurants

	next := ""
	if len(restaurants) > 0 {
		next = restaurants[0].RestaurantID
		for _, item := range restaurants {
			if item.RestaurantID == c.state.SelectedRestaurantID {
				next = c.state.SelectedRestaurantID
				break
			}
		}
	}
	changed := next != c.state.SelectedRestaurantID
	c.state.SelectedRestaurantID = next
	if next == "" {
		c.state.Detail = nil
	}
	c.mu.Unlock()

	if changed && next != "" {
		c.loadDetail(ctx, next)
	}
}

// SelectRestaurant switches the detail panel to the given restaurant.
func (c *Controller) SelectRestaurant(ctx context.Context, restaurantID string) {
	c.mu.Lock()
	if restaurantID == "" || restaurantID == c.state.SelectedRestaurantID {
		c.mu.Unlock()
		return
	}
	c.state.SelectedRestaurantID = restaurantID
	c.mu.Unlock()

	c.loadDetail(ctx, restaurantID)
}

func (c *Controller) loadDetail(ctx context.Context, restaurantID string) {
	c.mu.Lock()
	c.detailGen++
	gen := c.detailGen
	c.state.LoadingDetail = true
	c.mu.Unlock()

	detail, err := c.gw.Detail(ctx, restaurantID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.detailGen {
		return
	}
	c.state.LoadingDetail = false
	if err != nil {
		// The list stays interactive; only a toast is shown.
		logrus.WithError(err).Error("load restaurant detail")
		c.setFeedbackLocked(FeedbackError, msgDetailFailed)
		return
	}
	c.state.Detail = detail
}

// CollectStamp runs the stamp accrual for the currently selected restaurant.
// The busy flag disables reentrant calls and is cleared on every path. On
// success the detail is replaced and the matching list entry reconciled; on
// failure prior state stays intact and the error is returned so the PIN
// modal can react.
func (c *Controller) CollectStamp(ctx context.Context, pin string) error {
	c.mu.Lock()
	if c.state.Detail == nil || c.state.Stamping {
		c.mu.Unlock()
		return nil
	}
	restaurantID := c.state.Detail.RestaurantID
	c.state.Stamping = true
	c.mu.Unlock()

	updated, err := c.gw.CollectStamp(ctx, restaurantID, pin)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Stamping = false
	if err != nil {
		c.setFeedbackLocked(FeedbackError, err.Error())
		return err
	}
	c.state.Detail = updated
	c.state.Restaurants = reconcile(c.state.Restaurants, updated)
	c.setFeedbackLocked(FeedbackSuccess, msgStampSuccess)
	return nil
}

// RedeemCoupon marks a coupon used for the currently selected restaurant.
func (c *Controller) RedeemCoupon(ctx context.Context, couponID, pin string) error {
	c.mu.Lock()
	if c.state.Detail == nil || c.state.RedeemingCoupon {
		c.mu.Unlock()
		return nil
	}
	restaurantID := c.state.Detail.RestaurantID
	c.state.RedeemingCoupon = true
	c.mu.Unlock()

	updated, err := c.gw.RedeemCoupon(ctx, restaurantID, couponID, pin)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.RedeemingCoupon = false
	if err != nil {
		c.setFeedbackLocked(FeedbackError, err.Error())
		return err
	}
	c.state.Detail = updated
	c.state.Restaurants = reconcile(c.state.Restaurants, updated)
	c.setFeedbackLocked(FeedbackSuccess, msgCouponSuccess)
	return nil
}

// setFeedbackLocked replaces the current toast and arms its auto-dismiss
// timer. A newer toast supersedes the timer of an older one.
func (c *Controller) setFeedbackLocked(kind FeedbackType, message string) {
	c.feedbackSeq++
	seq := c.feedbackSeq
	c.state.Feedback = &Feedback{Type: kind, Message: message}
	time.AfterFunc(c.dismissTTL, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if seq == c.feedbackSeq {
			c.state.Feedback = nil
		}
	})
}
