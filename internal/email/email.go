package email

import (
	"context"
	"fmt"

	"github.com/Gvirgo2/touropia/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("send email to %s about %s for %s %s x%d\n", event.Email, event.Type, event.Kind, event.ItemRef, event.Quantity)
	return nil
}
