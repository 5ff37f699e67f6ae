// Package order 提供订单服务与定价引擎
package order

import (
	"fmt"
	"time"

	"github.com/VladDeliar/PoS/internal/common/config"
	apperrors "github.com/VladDeliar/PoS/internal/common/errors"
	"github.com/VladDeliar/PoS/internal/common/utils"
	"github.com/VladDeliar/PoS/internal/models"
	"github.com/VladDeliar/PoS/internal/service/marketing"
)

// QuoteInput 定价引擎输入
// 所有依赖数据（配送区、促销码、客户折扣）由调用方预先取出，
// 引擎本身是纯函数，不触碰存储。
type QuoteInput struct {
	Items           []models.OrderItem
	OrderType       string
	DeliveryZone    *models.DeliveryZone
	DeliveryAddress string

	Promo                   *models.PromoCode
	CustomerDiscountPercent float64
	CustomerDiscountLabel   string

	PaymentMethod string
	Payment       *config.PaymentConfig
	Now           time.Time
}

// Quote 定价结果
// DiscountAmount 是促销码折扣，CustomerDiscountAmount 是客户分类折扣，
// 两者互斥：胜出方持有金额，落败方为 0
type Quote struct {
	Subtotal               float64 `json:"subtotal"`
	DiscountAmount         float64 `json:"discount_amount"`
	CustomerDiscountAmount float64 `json:"customer_discount_amount"`
	DiscountLabel          string  `json:"discount_label,omitempty"`
	DeliveryFee            float64 `json:"delivery_fee"`
	SurchargeAmount        float64 `json:"surcharge_amount"`
	Total                  float64 `json:"total"`

	// PromoWon 促销码折扣胜出时为 true，此时才允许递增使用次数
	PromoWon bool `json:"-"`
}

// CalculateQuote 计算订单金额
//
// 折扣互斥：促销码与客户分类折扣只取金额较大的一个，
// 相等时客户折扣胜出（>= 比较）。落败方的折扣与副作用
// 一并丢弃。所有金额在聚合级四舍五入到 2 位小数。
func CalculateQuote(in QuoteInput) (*Quote, error) {
	if len(in.Items) == 0 {
		return nil, apperrors.ErrOrderEmpty
	}

	var subtotal float64
	for i := range in.Items {
		subtotal += in.Items[i].LineTotal()
	}
	subtotal = utils.Round2(subtotal)

	quote := &Quote{Subtotal: subtotal}

	// 配送校验与运费
	if in.OrderType == models.OrderTypeDelivery {
		zone := in.DeliveryZone
		if zone == nil || !zone.Enabled || in.DeliveryAddress == "" {
			return nil, apperrors.ErrDeliveryNotAvail
		}
		if subtotal < zone.MinOrderAmount {
			return nil, apperrors.ErrOrderMinAmount.WithMessage(
				fmt.Sprintf("Мінімальна сума замовлення для доставки — %.0f грн", zone.MinOrderAmount))
		}
		if zone.FreeDeliveryThreshold != nil && subtotal >= *zone.FreeDeliveryThreshold {
			quote.DeliveryFee = 0
		} else {
			quote.DeliveryFee = zone.DeliveryFee
		}
	}

	// 促销码折扣
	var promoAmount float64
	if in.Promo != nil {
		if err := marketing.CheckPromo(in.Promo, subtotal, in.Now); err != nil {
			return nil, err
		}
		promoAmount = marketing.Discount(in.Promo, subtotal)
	}

	// 客户分类折扣
	var customerAmount float64
	if in.CustomerDiscountPercent > 0 {
		customerAmount = utils.Round2(subtotal * in.CustomerDiscountPercent / 100)
	}

	// 互斥仲裁：金额较大者胜出，平局偏向客户折扣，落败方记 0
	if customerAmount >= promoAmount {
		if customerAmount > 0 {
			quote.CustomerDiscountAmount = customerAmount
			quote.DiscountLabel = in.CustomerDiscountLabel
		}
	} else {
		quote.DiscountAmount = promoAmount
		quote.DiscountLabel = in.Promo.Code
		quote.PromoWon = true
	}

	// 刷卡/在线支付附加费
	if in.Payment != nil && in.Payment.SurchargeApplies(in.PaymentMethod) {
		quote.SurchargeAmount = utils.Round2(subtotal * in.Payment.CardSurchargePercent / 100)
	}

	quote.Total = utils.Round2(subtotal - quote.DiscountAmount - quote.CustomerDiscountAmount + quote.DeliveryFee + quote.SurchargeAmount)
	return quote, nil
}
