// Package notification persists best-effort user notifications. Failures
// are logged and swallowed: financial correctness never depends on a
// notification landing.
package notification

import (
	"context"
	"fmt"
	"log"

	"nocage/internal/models"
	"nocage/internal/repositories"
)

type Service struct {
	repo repositories.NotificationRepository
}

func NewService(repo repositories.NotificationRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) WalletCredited(ctx context.Context, userID uint, amount int64) {
	s.create(ctx, &models.Notification{
		UserID: userID,
		Type:   models.NotificationWalletCredited,
		Title:  "Wallet credited",
		Body:   fmt.Sprintf("₹%d.%02d was added to your wallet.", amount/100, amount%100),
	})
}

func (s *Service) TopupConfirmed(ctx context.Context, userID uint, amount int64, referenceID string) {
	s.create(ctx, &models.Notification{
		UserID: userID,
		Type:   models.NotificationTopupConfirmed,
		Title:  "Top-up confirmed",
		Body:   fmt.Sprintf("Top-up %s for ₹%d.%02d was confirmed.", referenceID, amount/100, amount%100),
	})
}

func (s *Service) TopupRejected(ctx context.Context, userID uint, referenceID, reason string) {
	s.create(ctx, &models.Notification{
		UserID: userID,
		Type:   models.NotificationTopupRejected,
		Title:  "Top-up rejected",
		Body:   fmt.Sprintf("Top-up %s was rejected: %s", referenceID, reason),
	})
}

func (s *Service) PayoutUpdate(ctx context.Context, userID uint, payoutID uint, status, reason string) {
	body := fmt.Sprintf("Payout request #%d is now %s.", payoutID, status)
	if reason != "" {
		body = fmt.Sprintf("%s Reason: %s", body, reason)
	}
	s.create(ctx, &models.Notification{
		UserID: userID,
		Type:   models.NotificationPayoutUpdate,
		Title:  "Payout update",
		Body:   body,
	})
}

func (s *Service) create(ctx context.Context, n *models.Notification) {
	if err := s.repo.Create(ctx, n); err != nil {
		log.Printf("failed to create %s notification for user %d: %v", n.Type, n.UserID, err)
	}
}
