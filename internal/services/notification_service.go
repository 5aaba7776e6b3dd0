package services

import (
	"context"
	"fmt"
	"time"

	"garage_manager/internal/models"
	"garage_manager/pkg/whatsapp"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Notifier sends a short text to a customer's phone.
type Notifier interface {
	Notify(ctx context.Context, phone, text string) error
}

type whatsappNotifier struct {
	client *whatsapp.Client
	log    zerolog.Logger
}

// NewWhatsAppNotifier returns a Notifier backed by the WhatsApp gateway. With
// no gateway configured every message is dropped.
func NewWhatsAppNotifier(client *whatsapp.Client, log zerolog.Logger) Notifier {
	return &whatsappNotifier{client: client, log: log}
}

func (n *whatsappNotifier) Notify(ctx context.Context, phone, text string) error {
	if !n.client.Enabled() {
		n.log.Debug().Str("phone", phone).Msg("whatsapp disabled, notification dropped")
		return nil
	}
	return n.client.SendTextMessage(ctx, phone, text)
}

func repairFinishedMessage(t *models.TicketView, loc *time.Location) string {
	done := ""
	if t.CompletionTime != nil {
		done = " lúc " + t.CompletionTime.In(loc).Format("15:04 02/01/2006")
	}
	return fmt.Sprintf("Xe %s của quý khách đã sửa xong%s. Tổng chi phí: %s đ. Cảm ơn quý khách!",
		t.Plate, done, formatMoney(t.Total))
}

func paidMessage(t *models.TicketView) string {
	return fmt.Sprintf("Garage đã nhận thanh toán %s đ cho phiếu sửa chữa #%d (xe %s). Cảm ơn quý khách!",
		formatMoney(t.Total), t.ID, t.Plate)
}

var vndPrinter = message.NewPrinter(language.Vietnamese)

// formatMoney renders a rounded amount with Vietnamese digit grouping: 1250000 -> 1.250.000.
func formatMoney(d decimal.Decimal) string {
	return vndPrinter.Sprintf("%d", d.Round(0).IntPart())
}
