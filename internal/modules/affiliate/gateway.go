package affiliate

import "context"

// ErrorCode classifies gateway failures for transport mapping.
type ErrorCode string

const (
	CodeUnauthorized    ErrorCode = "unauthorized"
	CodeOperationFailed ErrorCode = "operation_failed"
)

// GatewayError carries a user-facing message alongside the failure class
// and, for operation failures, the engine-level cause.
type GatewayError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *GatewayError) Error() string { return e.Message }

func (e *GatewayError) Unwrap() error { return e.Err }

const (
	msgPINMismatch  = "관리자 PIN이 올바르지 않습니다."
	msgStampFailed  = "적립에 실패했습니다. 매장 정보를 확인해주세요."
	msgCouponFailed = "쿠폰 사용 처리에 실패했습니다."
)

// Gateway fronts the accrual engine for UI callers. Reads pass through;
// the two mutations require the admin PIN, checked strictly before the
// engine is touched. Every method takes a context because this boundary
// stands in for a real network hop; callers must not assume synchronous
// completion.
type Gateway struct {
	svc Service
	pin string
}

// NewGateway wraps the engine with the fixed admin PIN. The PIN is a
// simulation stand-in compared by exact match, not a real credential.
func NewGateway(svc Service, pin string) *Gateway {
	return &Gateway{svc: svc, pin: pin}
}

func (g *Gateway) Categories(ctx context.Context) ([]CategoryOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.svc.ListCategories(ctx), nil
}

func (g *Gateway) Restaurants(ctx context.Context, categoryID string) ([]RestaurantSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.svc.ListRestaurants(ctx, categoryID), nil
}

func (g *Gateway) Detail(ctx context.Context, id string) (*RestaurantDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.svc.GetDetail(ctx, id)
}

// CollectStamp accrues one stamp after verifying the PIN. On PIN mismatch
// nothing is mutated.
func (g *Gateway) CollectStamp(ctx context.Context, restaurantID, pin string) (*RestaurantDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pin != g.pin {
		return nil, &GatewayError{Code: CodeUnauthorized, Message: msgPINMismatch}
	}
	detail, err := g.svc.IncrementStamp(ctx, restaurantID)
	if err != nil {
		return nil, &GatewayError{Code: CodeOperationFailed, Message: msgStampFailed, Err: err}
	}
	return detail, nil
}

// RedeemCoupon marks a coupon used after verifying the PIN.
func (g *Gateway) RedeemCoupon(ctx context.Context, restaurantID, couponID, pin string) (*RestaurantDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pin != g.pin {
		return nil, &GatewayError{Code: CodeUnauthorized, Message: msgPINMismatch}
	}
	detail, err := g.svc.UseCoupon(ctx, restaurantID, couponID)
	if err != nil {
		return nil, &GatewayError{Code: CodeOperationFailed, Message: msgCouponFailed, Err: err}
	}
	return detail, nil
}
