package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// TelegramService sends order notifications to the shop's admin chat.
// It is entirely optional: with no bot token configured every call is a no-op.
type TelegramService struct {
	botToken    string
	adminChatID string
	client      *http.Client
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendToAdmin sends a message to the admin chat.
func (s *TelegramService) SendToAdmin(text string) error {
	if s.botToken == "" || s.adminChatID == "" {
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	body, err := json.Marshal(telegramMessage{
		ChatID:    s.adminChatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// PaidOrderNotification is the data for the "payment received" message.
type PaidOrderNotification struct {
	OrderNumber  string
	CustomerName string
	Phone        string
	State        string
	Total        float64
	Lines        []PaidOrderLine
}

// PaidOrderLine is one item row in the notification.
type PaidOrderLine struct {
	Name     string
	Size     string
	Color    string
	Quantity int
}

// NotifyOrderPaid formats and sends the payment-received message. Best
// effort: callers ignore the error beyond logging.
func (s *TelegramService) NotifyOrderPaid(n PaidOrderNotification) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>💰 Payment received</b>\n")
	fmt.Fprintf(&b, "Order: <b>%s</b>\n", n.OrderNumber)
	fmt.Fprintf(&b, "Customer: %s (%s)\n", n.CustomerName, n.Phone)
	fmt.Fprintf(&b, "Ships to: %s\n\n", n.State)
	for _, line := range n.Lines {
		fmt.Fprintf(&b, "• %s (%s/%s) × %d\n", line.Name, line.Size, line.Color, line.Quantity)
	}
	fmt.Fprintf(&b, "\nTotal: <b>₦%s</b>", FormatAmount(n.Total))

	return s.SendToAdmin(b.String())
}

// FormatAmount renders an amount with thousand separators.
func FormatAmount(amount float64) string {
	str := fmt.Sprintf("%d", int64(amount))

	var result strings.Builder
	length := len(str)
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return result.String()
}
