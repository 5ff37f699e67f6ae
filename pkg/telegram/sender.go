// Package telegram 订单通知发送
//
// 新订单与呼叫服务员事件推送到餐厅的 Telegram 工作群。
// 发送失败只记录日志，不影响订单主流程。
package telegram

import (
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender 通知发送接口
type Sender interface {
	// SendMessage 发送文本消息到配置的群
	SendMessage(text string) error
}

// BotSender 基于 Telegram Bot API 的发送器
type BotSender struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewBotSender 创建 Telegram 发送器
func NewBotSender(token string, chatID int64) (*BotSender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: init bot: %w", err)
	}
	return &BotSender{bot: bot, chatID: chatID}, nil
}

// SendMessage 发送文本消息
func (s *BotSender) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram: send message: %w", err)
	}
	return nil
}

// MockSender 模拟发送器（用于开发/测试）
type MockSender struct {
	mu       sync.Mutex
	Messages []string
}

// NewMockSender 创建模拟发送器
func NewMockSender() *MockSender {
	return &MockSender{}
}

// SendMessage 记录消息
func (m *MockSender) SendMessage(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, text)
	return nil
}

// GetLastMessage 获取最后一条消息
func (m *MockSender) GetLastMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Messages) == 0 {
		return ""
	}
	return m.Messages[len(m.Messages)-1]
}

// Clear 清空消息记录
func (m *MockSender) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = nil
}

// OrderLine 订单摘要中的一行商品
type OrderLine struct {
	Name  string
	Qty   int
	Price float64
}

// OrderSummary 新订单通知所需字段
type OrderSummary struct {
	OrderNumber   string
	OrderType     string
	CustomerName  string
	CustomerPhone string
	Address       string
	TableNumber   *int
	Lines         []OrderLine
	Total         float64
	PaymentMethod string
	Notes         string
}

// orderTypeLabels 订单类型的乌克兰语名称
var orderTypeLabels = map[string]string{
	"dine_in":  "В закладі",
	"takeaway": "Самовивіз",
	"delivery": "Доставка",
}

// paymentLabels 支付方式的乌克兰语名称
var paymentLabels = map[string]string{
	"cash":   "Готівка",
	"card":   "Картка",
	"online": "Онлайн",
}

// FormatNewOrder 格式化新订单通知文本
func FormatNewOrder(o OrderSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🆕 <b>Нове замовлення %s</b>\n", o.OrderNumber)
	if label, ok := orderTypeLabels[o.OrderType]; ok {
		fmt.Fprintf(&b, "Тип: %s\n", label)
	}
	if o.TableNumber != nil {
		fmt.Fprintf(&b, "Стіл: %d\n", *o.TableNumber)
	}
	if o.CustomerName != "" {
		fmt.Fprintf(&b, "Клієнт: %s\n", o.CustomerName)
	}
	if o.CustomerPhone != "" {
		fmt.Fprintf(&b, "Телефон: %s\n", o.CustomerPhone)
	}
	if o.Address != "" {
		fmt.Fprintf(&b, "Адреса: %s\n", o.Address)
	}

	b.WriteString("\n")
	for _, line := range o.Lines {
		fmt.Fprintf(&b, "• %s x%d — %.2f грн\n", line.Name, line.Qty, line.Price*float64(line.Qty))
	}

	fmt.Fprintf(&b, "\n<b>Разом: %.2f грн</b>\n", o.Total)
	if label, ok := paymentLabels[o.PaymentMethod]; ok {
		fmt.Fprintf(&b, "Оплата: %s\n", label)
	}
	if o.Notes != "" {
		fmt.Fprintf(&b, "Коментар: %s\n", o.Notes)
	}

	return b.String()
}

// FormatWaiterCall 格式化呼叫服务员通知文本
func FormatWaiterCall(tableNumber int) string {
	return fmt.Sprintf("🔔 <b>Виклик офіціанта</b>\nСтіл: %d", tableNumber)
}
