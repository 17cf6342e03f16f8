package services

import (
	"context"
	"fmt"
	"strings"

	"pizza_store/internal/models"
	"pizza_store/pkg/whatsapp"
)

type NotificationService interface {
	NotifyOrderPlaced(ctx context.Context, username string, orders []models.Order) error
}

type whatsappNotificationService struct {
	client     *whatsapp.Client
	ownerPhone string
}

// NewWhatsAppNotificationService sends checkout summaries to the store owner.
func NewWhatsAppNotificationService(client *whatsapp.Client, ownerPhone string) NotificationService {
	return &whatsappNotificationService{client: client, ownerPhone: ownerPhone}
}

func (s *whatsappNotificationService) NotifyOrderPlaced(ctx context.Context, username string, orders []models.Order) error {
	return s.client.SendTextMessage(ctx, s.ownerPhone, OrderPlacedMessage(username, orders))
}

// OrderPlacedMessage renders the text sent to the store owner.
func OrderPlacedMessage(username string, orders []models.Order) string {
	if username == "" {
		username = models.GuestName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New order from %s\n", username)
	for _, order := range orders {
		for _, item := range order.Items {
			fmt.Fprintf(&b, "#%d %dx %s %s - $%s\n", order.OrderID, item.Quantity, item.Size, item.ItemName, item.Price.StringFixed(2))
			if len(item.Meats) > 0 {
				fmt.Fprintf(&b, "   meats: %s\n", strings.Join(item.Meats, ", "))
			}
			if len(item.Veggies) > 0 {
				fmt.Fprintf(&b, "   veggies: %s\n", strings.Join(item.Veggies, ", "))
			}
		}
	}
	total := models.Order{}
	for _, order := range orders {
		total.Items = append(total.Items, order.Items...)
	}
	fmt.Fprintf(&b, "Total: $%s", total.Total().StringFixed(2))
	return b.String()
}
