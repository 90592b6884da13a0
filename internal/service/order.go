package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"steamsbury/config"
	"steamsbury/internal/loyalty"
	"steamsbury/internal/model"
	"steamsbury/internal/model/dto"
	"steamsbury/internal/queue"
	bizErrors "steamsbury/pkg/errors"
	"steamsbury/pkg/logger"
	"steamsbury/pkg/metrics"
	"steamsbury/pkg/snowflake"
	"steamsbury/storage/database"
)

var (
	orderService *OrderService
	orderOnce    sync.Once
)

func Order() *OrderService {
	orderOnce.Do(func() {
		orderService = &OrderService{}
	})
	return orderService
}

type OrderService struct{}

// checkoutLine 校验通过的购物车行及其快照
type checkoutLine struct {
	item     model.MenuItem
	quantity int
	addons   []model.Addon
	offer    *model.Offer
	saving   decimal.Decimal // 每日优惠折扣金额（整行）
	declared decimal.Decimal
	offerID  *int64 // 优惠 public_id
}

// Checkout 下单结算。所有金额服务端按当前快照价重算，与客户端声明值对账，
// 对不上直接拒单。积分扣减、新客/生日/每日优惠核销与订单落库在同一事务内完成。
func (s *OrderService) Checkout(ctx context.Context, userID string, req *dto.CheckoutRequest) (*dto.OrderData, error) {
	if len(req.Items) == 0 {
		return nil, bizErrors.CartEmpty
	}

	orderType, err := parseOrderType(req.OrderType)
	if err != nil {
		return nil, err
	}

	declaredTotal, err := decimal.NewFromString(req.DeclaredTotal)
	if err != nil {
		return nil, bizErrors.Definition{Code: "INVALID_REQUEST", Message: "Invalid declared_total"}
	}

	user, err := getUserByPublicID(ctx, database.DB(), userID)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	lines, err := s.resolveLines(ctx, req.Items, orderType, today)
	if err != nil {
		return nil, err
	}

	rules := Rules()
	status, err := rules.TierFor(user.LifetimePoints)
	if err != nil {
		return nil, err
	}

	// 等级折扣在行解析后才能计算，候选价基于快照价
	day := today.Format(loyalty.DateLayout)
	var order *model.Order

	txErr := database.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 锁定用户行，权益核销和积分扣减以锁内状态为准
		var locked model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", user.ID).First(&locked).Error; err != nil {
			return fmt.Errorf("failed to lock user: %w", err)
		}

		offerDiscount := decimal.Zero
		redeemedToday := map[string]string{}
		for i := range lines {
			line := &lines[i]
			if line.offer == nil {
				continue
			}

			key := strconv.FormatInt(line.offer.PublicID, 10)
			if last, ok := locked.DailyOffersRedeemed.RedeemedOn(key); ok && last == day {
				return bizErrors.OfferAlreadyRedeemed
			}
			if _, dup := redeemedToday[key]; dup {
				return bizErrors.OfferAlreadyRedeemed
			}

			discount, ok := line.offer.TierDiscounts.DiscountFor(status.Current.ID)
			if !ok || discount.LessThanOrEqual(decimal.Zero) {
				return bizErrors.OfferNotEligible
			}

			display := loyalty.DiscountedPrice(line.item.Price, line.offer.DiscountType, discount)
			line.saving = line.item.Price.Sub(display).
				Mul(decimal.NewFromInt(int64(line.quantity))).
				Round(2)
			offerDiscount = offerDiscount.Add(line.saving)
			redeemedToday[key] = day
		}

		discounts := loyalty.Discounts{Other: offerDiscount}

		welcomeApplied := false
		if !locked.WelcomeOfferRedeemed {
			discounts.Welcome = rules.WelcomeDiscount
			welcomeApplied = true
		}

		birthdayApplied := false
		if req.UseBirthdayCredit {
			if locked.BirthdayCredit.LessThanOrEqual(decimal.Zero) ||
				locked.BirthdayCreditYear != today.Year() {
				return bizErrors.BirthdayCreditAbsent
			}
			discounts.Birthday = locked.BirthdayCredit
			birthdayApplied = true
		}

		if req.RedeemPoints < 0 {
			return bizErrors.Definition{Code: "INVALID_REQUEST", Message: "redeem_points must not be negative"}
		}
		if req.RedeemPoints > 0 {
			if locked.RedeemablePoints < req.RedeemPoints {
				return bizErrors.InsufficientPoints
			}
			discounts.Loyalty = rules.RedeemRule.Value(req.RedeemPoints)
		}

		cart := lo.Map(lines, func(line checkoutLine, _ int) loyalty.CartLine {
			return loyalty.CartLine{
				UnitPrice: line.item.Price,
				Quantity:  line.quantity,
				AddonPrices: lo.Map(line.addons, func(a model.Addon, _ int) decimal.Decimal {
					return a.Price
				}),
				DeclaredLineTotal: line.declared,
			}
		})

		// 先复算车总价以确定服务费，再叠加折扣出应付总额
		base, err := loyalty.ComputeTotals(cart, loyalty.Discounts{}, decimal.Zero)
		if err != nil {
			return err
		}

		serviceCharge := decimal.Zero
		if orderType == model.OrderTypeDineIn {
			serviceCharge = base.CartTotal.Mul(rules.ServiceChargeRate).Round(2)
		}

		totals, err := loyalty.ComputeTotals(cart, discounts, serviceCharge)
		if err != nil {
			return err
		}
		if err := loyalty.VerifyDeclaredTotal(declaredTotal, totals.GrandTotal); err != nil {
			return err
		}

		// 核销用户权益
		userUpdates := map[string]interface{}{}
		if welcomeApplied {
			userUpdates["welcome_offer_redeemed"] = true
		}
		if birthdayApplied {
			userUpdates["birthday_credit"] = decimal.Zero
		}
		if len(redeemedToday) > 0 {
			merged := model.RedemptionMap{}
			for k, v := range locked.DailyOffersRedeemed {
				merged[k] = v
			}
			for k, v := range redeemedToday {
				merged[k] = v
			}
			userUpdates["daily_offers_redeemed"] = merged
		}
		if req.RedeemPoints > 0 {
			userUpdates["redeemable_points"] = locked.RedeemablePoints - req.RedeemPoints
		}
		if len(userUpdates) > 0 {
			if err := tx.Model(&model.User{}).Where("id = ?", locked.ID).Updates(userUpdates).Error; err != nil {
				return fmt.Errorf("failed to update user benefits: %w", err)
			}
		}

		publicID, err := snowflake.NextID(snowflake.GeneratorTypeOrder)
		if err != nil {
			return fmt.Errorf("failed to generate order ID: %w", err)
		}

		order = &model.Order{
			PublicID:         publicID,
			OrderNumber:      uuid.NewString(),
			CustomerID:       locked.ID,
			OrderType:        orderType,
			Status:           model.OrderStatusPlaced,
			CartTotal:        totals.CartTotal,
			WelcomeDiscount:  discounts.Welcome,
			BirthdayDiscount: discounts.Birthday,
			LoyaltyDiscount:  discounts.Loyalty,
			OfferDiscount:    discounts.Other,
			ServiceCharge:    serviceCharge,
			GrandTotal:       totals.GrandTotal,
			PointsRedeemed:   req.RedeemPoints,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items := make([]model.OrderItem, 0, len(lines))
		for i, line := range lines {
			items = append(items, model.OrderItem{
				OrderID:    order.ID,
				MenuItemID: line.item.PublicID,
				Name:       line.item.Name,
				UnitPrice:  line.item.Price,
				Quantity:   line.quantity,
				Addons: lo.Map(line.addons, func(a model.Addon, _ int) model.OrderAddon {
					return model.OrderAddon{AddonID: a.ID, Name: a.Name, Price: a.Price}
				}),
				AppliedOfferID: line.offerID,
				LineTotal:      totals.LineTotals[i],
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		order.Items = items

		if req.RedeemPoints > 0 {
			pointsTx := &model.PointsTransaction{
				UserID:       locked.ID,
				Kind:         model.PointsKindRedeem,
				Delta:        -req.RedeemPoints,
				BalanceAfter: locked.RedeemablePoints - req.RedeemPoints,
				OrderID:      &order.ID,
			}
			if err := tx.Create(pointsTx).Error; err != nil {
				return fmt.Errorf("failed to record points redemption: %w", err)
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	logger.Logger.Info("Order placed",
		zap.Int64("public_id", order.PublicID),
		zap.String("order_number", order.OrderNumber),
		zap.String("grand_total", order.GrandTotal.StringFixed(2)),
	)

	// 消息发布失败不回滚订单，订单超时由调度器兜底
	if err := queue.PublishOrderPlaced(order); err != nil {
		logger.Logger.Error("Failed to publish order placed message", zap.Error(err))
	}
	staleAfter := time.Duration(config.Cfg.OrderStaleHours) * time.Hour
	if err := queue.PublishOrderExpireCheck(order.ID, staleAfter); err != nil {
		logger.Logger.Error("Failed to publish order expire message", zap.Error(err))
	}

	grandTotal, _ := order.GrandTotal.Float64()
	metrics.RecordOrderPlaced(ctx, string(order.OrderType), grandTotal)

	data := buildOrderData(order)
	return &data, nil
}

// resolveLines 校验购物车行：单品和加料必须存在且在售，
// 应用的优惠必须当日生效、用餐方式和单品匹配。
func (s *OrderService) resolveLines(ctx context.Context, items []dto.CheckoutItem, orderType model.OrderType, today time.Time) ([]checkoutLine, error) {
	itemIDs := lo.Uniq(lo.Map(items, func(i dto.CheckoutItem, _ int) int64 { return i.MenuItemID }))

	var menuItems []model.MenuItem
	err := database.DB().WithContext(ctx).Preload("Addons").
		Where("public_id IN ?", itemIDs).Find(&menuItems).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	itemsByID := lo.KeyBy(menuItems, func(item model.MenuItem) int64 { return item.PublicID })

	offerIDs := lo.FilterMap(items, func(i dto.CheckoutItem, _ int) (int64, bool) {
		if i.AppliedOfferID == nil {
			return 0, false
		}
		return *i.AppliedOfferID, true
	})
	offersByID := map[int64]model.Offer{}
	if len(offerIDs) > 0 {
		var offers []model.Offer
		if err := database.DB().WithContext(ctx).Where("public_id IN ?", lo.Uniq(offerIDs)).Find(&offers).Error; err != nil {
			return nil, fmt.Errorf("failed to query offers: %w", err)
		}
		offersByID = lo.KeyBy(offers, func(o model.Offer) int64 { return o.PublicID })
	}

	day := today.Format(loyalty.DateLayout)
	lines := make([]checkoutLine, 0, len(items))
	for _, reqItem := range items {
		if reqItem.Quantity <= 0 {
			return nil, bizErrors.Definition{Code: "INVALID_REQUEST", Message: "Quantity must be positive"}
		}

		item, ok := itemsByID[reqItem.MenuItemID]
		if !ok {
			return nil, bizErrors.MenuItemNotFound
		}
		if !item.Available {
			return nil, bizErrors.MenuItemUnavailable
		}

		declared, err := decimal.NewFromString(reqItem.DeclaredLineTotal)
		if err != nil {
			return nil, bizErrors.Definition{Code: "INVALID_REQUEST", Message: "Invalid declared_line_total"}
		}

		addonsByID := lo.KeyBy(item.Addons, func(a model.Addon) int64 { return a.ID })
		addons := make([]model.Addon, 0, len(reqItem.AddonIDs))
		for _, addonID := range reqItem.AddonIDs {
			addon, ok := addonsByID[addonID]
			if !ok || !addon.Available {
				return nil, bizErrors.AddonNotFound
			}
			addons = append(addons, addon)
		}

		line := checkoutLine{
			item:     item,
			quantity: reqItem.Quantity,
			addons:   addons,
			declared: declared,
		}

		if reqItem.AppliedOfferID != nil {
			offer, ok := offersByID[*reqItem.AppliedOfferID]
			if !ok {
				return nil, bizErrors.OfferNotFound
			}
			if offer.StartDate > day || day > offer.EndDate {
				return nil, bizErrors.OfferNotEligible
			}
			if offer.OrderType != orderType {
				return nil, bizErrors.OfferNotEligible
			}
			if offer.MenuItemID != item.PublicID {
				return nil, bizErrors.OfferNotEligible
			}
			line.offer = &offer
			line.offerID = reqItem.AppliedOfferID
		}

		lines = append(lines, line)
	}

	return lines, nil
}

// GetOrder 顾客查询自己的订单
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*dto.OrderData, error) {
	user, err := getUserByPublicID(ctx, database.DB(), userID)
	if err != nil {
		return nil, err
	}

	order, err := s.getOrderByPublicID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != user.ID {
		return nil, bizErrors.OrderNotFound
	}

	data := buildOrderData(order)
	return &data, nil
}

// ListMyOrders 顾客订单列表，按下单时间倒序
func (s *OrderService) ListMyOrders(ctx context.Context, userID string, limit, offset int) ([]dto.OrderData, error) {
	user, err := getUserByPublicID(ctx, database.DB(), userID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var orders []model.Order
	err = database.DB().WithContext(ctx).Preload("Items").
		Where("customer_id = ?", user.ID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	return lo.Map(orders, func(o model.Order, _ int) dto.OrderData {
		return buildOrderData(&o)
	}), nil
}

// ListOrders 员工端订单列表，可按状态过滤
func (s *OrderService) ListOrders(ctx context.Context, statusFilter string, limit, offset int) ([]dto.OrderData, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := database.DB().WithContext(ctx).Preload("Items")
	if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}

	var orders []model.Order
	err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	return lo.Map(orders, func(o model.Order, _ int) dto.OrderData {
		return buildOrderData(&o)
	}), nil
}

// UpdateStatus 员工推进订单状态，非法流转直接拒绝
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, nextRaw string) error {
	next := model.OrderStatus(nextRaw)
	switch next {
	case model.OrderStatusProcessing, model.OrderStatusReady,
		model.OrderStatusCompleted, model.OrderStatusRejected:
	default:
		return bizErrors.OrderStatusInvalid
	}

	publicID, err := strconv.ParseInt(orderID, 10, 64)
	if err != nil {
		return bizErrors.OrderNotFound
	}

	var order model.Order
	var from model.OrderStatus

	txErr := database.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("public_id = ?", publicID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bizErrors.OrderNotFound
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}

		from = order.Status
		if !from.CanTransitionTo(next) {
			return bizErrors.OrderStatusInvalid
		}

		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).
			Update("status", next).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		order.Status = next
		return nil
	})
	if txErr != nil {
		return txErr
	}

	logger.Logger.Info("Order status changed",
		zap.String("order_number", order.OrderNumber),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
	)

	if err := queue.PublishOrderStatusChanged(&order, from, next); err != nil {
		logger.Logger.Error("Failed to publish order status message", zap.Error(err))
	}

	switch next {
	case model.OrderStatusCompleted:
		metrics.RecordOrderCompleted(ctx, string(order.OrderType))
	case model.OrderStatusRejected:
		metrics.RecordOrderRejected(ctx, "staff_rejected")
	}
	return nil
}

// ExpireOrder 超时未处理的 placed 订单自动拒单。worker 和调度器共用。
// 订单已被门店接走则什么都不做。
func (s *OrderService) ExpireOrder(ctx context.Context, orderID int64) error {
	var order model.Order
	var expired bool

	txErr := database.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", orderID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bizErrors.OrderNotFound
			}
			return fmt.Errorf("failed to lock order: %w", err)
		}

		if order.Status != model.OrderStatusPlaced {
			return nil
		}

		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).
			Update("status", model.OrderStatusRejected).Error; err != nil {
			return fmt.Errorf("failed to reject stale order: %w", err)
		}
		expired = true
		return nil
	})
	if txErr != nil {
		return txErr
	}

	if !expired {
		return nil
	}

	logger.Logger.Warn("Stale order auto-rejected",
		zap.String("order_number", order.OrderNumber),
	)

	if err := queue.PublishOrderStatusChanged(&order, model.OrderStatusPlaced, model.OrderStatusRejected); err != nil {
		logger.Logger.Error("Failed to publish order status message", zap.Error(err))
	}
	metrics.RecordOrderRejected(ctx, "expired")
	return nil
}

// FindStaleOrders 调度器兜底扫描：placed 状态超过时限的订单
func (s *OrderService) FindStaleOrders(ctx context.Context, olderThan time.Time, limit int) ([]int64, error) {
	if limit <= 0 {
		limit = 100
	}

	var ids []int64
	err := database.DB().WithContext(ctx).Model(&model.Order{}).
		Where("status = ? AND created_at < ?", model.OrderStatusPlaced, olderThan).
		Order("created_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query stale orders: %w", err)
	}
	return ids, nil
}

func (s *OrderService) getOrderByPublicID(ctx context.Context, orderID string) (*model.Order, error) {
	publicID, err := strconv.ParseInt(orderID, 10, 64)
	if err != nil {
		return nil, bizErrors.OrderNotFound
	}

	var order model.Order
	err = database.DB().WithContext(ctx).Preload("Items").
		Where("public_id = ?", publicID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bizErrors.OrderNotFound
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	return &order, nil
}

func buildOrderData(order *model.Order) dto.OrderData {
	return dto.OrderData{
		ID:          strconv.FormatInt(order.PublicID, 10),
		OrderNumber: order.OrderNumber,
		OrderType:   string(order.OrderType),
		Status:      string(order.Status),
		Items: lo.Map(order.Items, func(item model.OrderItem, _ int) dto.OrderItemData {
			return dto.OrderItemData{
				MenuItemID: item.MenuItemID,
				Name:       item.Name,
				UnitPrice:  item.UnitPrice.StringFixed(2),
				Quantity:   item.Quantity,
				Addons: lo.Map(item.Addons, func(a model.OrderAddon, _ int) dto.OrderAddonData {
					return dto.OrderAddonData{Name: a.Name, Price: a.Price.StringFixed(2)}
				}),
				LineTotal: item.LineTotal.StringFixed(2),
			}
		}),
		CartTotal:        order.CartTotal.StringFixed(2),
		WelcomeDiscount:  order.WelcomeDiscount.StringFixed(2),
		BirthdayDiscount: order.BirthdayDiscount.StringFixed(2),
		LoyaltyDiscount:  order.LoyaltyDiscount.StringFixed(2),
		OfferDiscount:    order.OfferDiscount.StringFixed(2),
		ServiceCharge:    order.ServiceCharge.StringFixed(2),
		GrandTotal:       order.GrandTotal.StringFixed(2),
		PointsRedeemed:   order.PointsRedeemed,
		PointsEarned:     order.PointsEarned,
		CreatedAt:        order.CreatedAt.Format(time.RFC3339),
	}
}
