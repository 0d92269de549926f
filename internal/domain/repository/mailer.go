package repository

import (
	"context"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
)

// Mailer defines the interface for outbound transactional email
type Mailer interface {
	Send(ctx context.Context, email *entity.OutboundEmail) error
}
