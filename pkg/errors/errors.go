package errors

import "fmt"

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	EmailAlreadyRegistered = Definition{Code: "EMAIL_ALREADY_REGISTERED", Message: "Email already registered"}
	InvalidCredentials     = Definition{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}
	Unauthorized           = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	Forbidden              = Definition{Code: "FORBIDDEN", Message: "Insufficient role"}
	InvalidUserID          = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	UserNotFound           = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
)

// 会员等级与积分错误。
var (
	TierTableInvalid     = Definition{Code: "TIER_TABLE_INVALID", Message: "Loyalty tier table is malformed"}
	InsufficientPoints   = Definition{Code: "INSUFFICIENT_POINTS", Message: "Redeemable points balance is insufficient"}
	PointsAlreadyAwarded = Definition{Code: "POINTS_ALREADY_AWARDED", Message: "Points already awarded for this order"}
)

// 菜单目录错误。
var (
	CategoryNotFound    = Definition{Code: "CATEGORY_NOT_FOUND", Message: "Category not found"}
	MenuItemNotFound    = Definition{Code: "MENU_ITEM_NOT_FOUND", Message: "Menu item not found"}
	MenuItemUnavailable = Definition{Code: "MENU_ITEM_UNAVAILABLE", Message: "Menu item is not available"}
	AddonNotFound       = Definition{Code: "ADDON_NOT_FOUND", Message: "Add-on not found"}
)

// 优惠活动错误。
var (
	OfferNotFound         = Definition{Code: "OFFER_NOT_FOUND", Message: "Offer not found"}
	OfferDateRangeInvalid = Definition{Code: "OFFER_DATE_RANGE_INVALID", Message: "Offer start date must not be after end date"}
	OfferDiscountInvalid  = Definition{Code: "OFFER_DISCOUNT_INVALID", Message: "Offer discounts must be non-negative"}
	OfferAlreadyRedeemed  = Definition{Code: "OFFER_ALREADY_REDEEMED", Message: "Offer already redeemed today"}
	OfferNotEligible      = Definition{Code: "OFFER_NOT_ELIGIBLE", Message: "Offer is not eligible for this customer"}
)

// 订单与结算错误。
var (
	CartEmpty             = Definition{Code: "CART_EMPTY", Message: "Cart is empty"}
	CartTotalMismatch     = Definition{Code: "CART_TOTAL_MISMATCH", Message: "Cart total does not match, please refresh your cart"}
	OrderNotFound         = Definition{Code: "ORDER_NOT_FOUND", Message: "Order not found"}
	OrderStatusInvalid    = Definition{Code: "ORDER_STATUS_INVALID", Message: "Invalid order status transition"}
	OrderTypeInvalid      = Definition{Code: "ORDER_TYPE_INVALID", Message: "Invalid order type"}
	BirthdayCreditAbsent  = Definition{Code: "BIRTHDAY_CREDIT_ABSENT", Message: "No birthday credit available"}
	BirthdayCreditGranted = Definition{Code: "BIRTHDAY_CREDIT_ALREADY_GRANTED", Message: "Birthday credit already granted this year"}
)

// 数据尚未就绪，调用方应渲染加载态后重试，不算真正的失败。
var NotReady = Definition{Code: "NOT_READY", Message: "Data not ready yet, please retry"}

// 限流错误。
var RateLimited = Definition{Code: "RATE_LIMITED", Message: "Too many requests"}

// token 包内部错误。
var (
	ErrTokenGeneratorNotInitialized = Definition{Code: "TOKEN_GENERATOR_NOT_INITIALIZED", Message: "Token generator not initialized"}
	ErrUnexpectedSigningMethod      = Definition{Code: "UNEXPECTED_SIGNING_METHOD", Message: "Unexpected token signing method"}
	ErrInvalidToken                 = Definition{Code: "INVALID_TOKEN", Message: "Invalid token"}
	ErrInvalidTokenClaims           = Definition{Code: "INVALID_TOKEN_CLAIMS", Message: "Invalid token claims"}
	ErrInvalidTokenType             = Definition{Code: "INVALID_TOKEN_TYPE", Message: "Invalid token type"}
	ErrUserIDNotFound               = Definition{Code: "USER_ID_NOT_FOUND", Message: "User ID not found in token"}
)

// SkipMessageError 表示消息应被跳过（已处理过等），消费者应 Ack 而不是重试。
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return fmt.Sprintf("skip message: %s", e.Reason)
}

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	EmailAlreadyRegistered.Code: EmailAlreadyRegistered,
	InvalidCredentials.Code:     InvalidCredentials,
	Unauthorized.Code:           Unauthorized,
	Forbidden.Code:              Forbidden,
	InvalidUserID.Code:          InvalidUserID,
	UserNotFound.Code:           UserNotFound,
	TierTableInvalid.Code:       TierTableInvalid,
	InsufficientPoints.Code:     InsufficientPoints,
	PointsAlreadyAwarded.Code:   PointsAlreadyAwarded,
	CategoryNotFound.Code:       CategoryNotFound,
	MenuItemNotFound.Code:       MenuItemNotFound,
	MenuItemUnavailable.Code:    MenuItemUnavailable,
	AddonNotFound.Code:          AddonNotFound,
	OfferNotFound.Code:          OfferNotFound,
	OfferDateRangeInvalid.Code:  OfferDateRangeInvalid,
	OfferDiscountInvalid.Code:   OfferDiscountInvalid,
	OfferAlreadyRedeemed.Code:   OfferAlreadyRedeemed,
	OfferNotEligible.Code:       OfferNotEligible,
	CartEmpty.Code:              CartEmpty,
	CartTotalMismatch.Code:      CartTotalMismatch,
	OrderNotFound.Code:          OrderNotFound,
	OrderStatusInvalid.Code:     OrderStatusInvalid,
	OrderTypeInvalid.Code:       OrderTypeInvalid,
	BirthdayCreditAbsent.Code:   BirthdayCreditAbsent,
	BirthdayCreditGranted.Code:  BirthdayCreditGranted,
	NotReady.Code:               NotReady,
	RateLimited.Code:            RateLimited,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
