// Walks the whole dashboard core end to end with seeded mock data:
// registration (wrong OTP first), session token hand-off, ledger seeding,
// a bank withdrawal, offer browsing and the admin approval queue.
package main

import (
	"context"
	"log"
	"time"

	"cash/internal/admin"
	"cash/internal/dashboard"
	"cash/internal/documents"
	"cash/internal/domain"
	"cash/internal/ledger"
	"cash/internal/offers"
	"cash/internal/otp"
	"cash/internal/registration"
	"cash/internal/session"
	"cash/internal/withdrawal"
	"cash/pkg/config"
	"cash/pkg/logger"
	"cash/pkg/validator"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	appLog := logger.New(cfg.App.Name)
	validate := validator.New()
	ctx := context.Background()

	// Shared mock state matching the original dashboard fixtures.
	balances := domain.AccountBalances{
		domain.SourcePersonal: decimal.NewFromFloat(5420.75),
		domain.SourceTeam:     decimal.NewFromFloat(2150.50),
		domain.SourceBonus:    decimal.NewFromFloat(1349.25),
		domain.SourceCapital:  decimal.NewFromFloat(8500.00),
	}
	verification := domain.VerificationStatus{Email: true, Phone: true, Identity: true, Address: false}

	// Wire the services.
	otpSvc := otp.NewStaticService(cfg.OTP.DevCode, appLog)
	docsSvc := documents.NewService(cfg.Documents.MaxUploadBytes, appLog)
	userStore := admin.NewInMemoryUserStore()
	flow := registration.NewFlow(otpSvc, docsSvc, userStore, validate, cfg.OTP.MaxAttempts, appLog)
	issuer := session.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiration)

	ledgerRepo := ledger.NewInMemoryRepository()
	ledgerSvc := ledger.NewService(ledgerRepo, appLog)
	seedLedger(ctx, ledgerSvc)

	catalog := withdrawal.DefaultCatalog().WithFeeOverrides(cfg.Withdrawal)
	withdrawSvc := withdrawal.NewService(catalog, acceptingBackend{}, ledgerSvc, appLog)

	offerRepo := offers.NewInMemoryRepository()
	offerSvc := offers.NewService(offerRepo, validate, appLog)
	seedOffers(ctx, offerSvc)

	dashSvc := dashboard.NewService(ledgerSvc, appLog)
	adminSvc := admin.NewService(userStore, ledgerSvc, offerSvc, appLog)

	// 1. Registration: basic info, a wrong OTP, the right one, documents.
	draft := &domain.RegistrationDraft{
		FirstName:       "John",
		LastName:        "Doe",
		Email:           "john@example.com",
		Password:        "Password123!",
		ConfirmPassword: "Password123!",
		AgreedToTerms:   true,
	}
	if err := flow.SubmitBasicInfo(ctx, draft); err != nil {
		log.Fatalf("basic info: %v", err)
	}

	draft.OtpCode = "000000"
	if err := flow.SubmitOtp(ctx, draft); err != nil {
		appLog.Warn("OTP rejected as expected", map[string]interface{}{"error": err.Error()})
	}
	draft.OtpCode = cfg.OTP.DevCode
	if err := flow.SubmitOtp(ctx, draft); err != nil {
		log.Fatalf("otp: %v", err)
	}

	draft.Documents = domain.IdentityDocuments{
		Front: &domain.DocumentUpload{FileName: "id-front.jpg", ContentType: "image/jpeg", Size: 120_000},
		Back:  &domain.DocumentUpload{FileName: "id-back.jpg", ContentType: "image/jpeg", Size: 118_000},
	}
	identity, err := flow.SubmitDocuments(ctx, draft)
	if err != nil {
		log.Fatalf("documents: %v", err)
	}

	token, err := issuer.Issue(identity)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}
	appLog.Info("Session established", map[string]interface{}{
		"user":       identity.DisplayName,
		"expires_at": token.ExpiresAt,
	})

	// 2. A bank withdrawal against the personal bucket.
	receipt, err := withdrawSvc.Request(ctx, domain.WithdrawalRequest{
		Source: domain.SourcePersonal,
		Method: domain.MethodBankTransfer,
		Amount: decimal.NewFromInt(100),
		PayoutDetails: domain.PayoutDetails{
			BankName:      "First National",
			AccountNumber: "000123456789",
			RoutingNumber: "110000000",
			AccountHolder: "John Doe",
		},
	}, balances, verification)
	if err != nil {
		log.Fatalf("withdrawal: %v", err)
	}
	appLog.Info("Withdrawal receipt", map[string]interface{}{
		"reference":  receipt.Reference,
		"fee":        receipt.Fee,
		"net_amount": receipt.NetAmount,
	})

	// 3. Browse and join an offer.
	active, err := offerSvc.List(ctx, offers.Filter{SortBy: offers.SortReward})
	if err != nil {
		log.Fatalf("list offers: %v", err)
	}
	if len(active) > 0 {
		if err := offerSvc.Join(ctx, active[0].ID, identity.ID); err != nil {
			appLog.Warn("Join failed", map[string]interface{}{"error": err.Error()})
		}
	}

	// 4. Dashboard overview.
	overview, err := dashSvc.Overview(ctx, balances, verification)
	if err != nil {
		log.Fatalf("overview: %v", err)
	}
	appLog.Info("Dashboard overview", map[string]interface{}{
		"total_balance":       overview.TotalBalance,
		"pending_withdrawals": overview.PendingWithdrawals,
		"recent":              len(overview.RecentTransactions),
	})

	// 5. Admin: approve the withdrawal just submitted.
	queue, err := adminSvc.PendingWithdrawals(ctx)
	if err != nil {
		log.Fatalf("pending withdrawals: %v", err)
	}
	for _, item := range queue {
		if item.Reference == receipt.Reference {
			if err := adminSvc.ApproveWithdrawal(ctx, item.TransactionID); err != nil {
				log.Fatalf("approve: %v", err)
			}
		}
	}

	stats, err := adminSvc.Stats(ctx)
	if err != nil {
		log.Fatalf("stats: %v", err)
	}
	appLog.Info("Platform stats", map[string]interface{}{
		"total_users":       stats.TotalUsers,
		"active_users":      stats.ActiveUsers,
		"total_withdrawals": stats.TotalWithdrawals,
		"active_offers":     stats.ActiveOffers,
	})
}

// acceptingBackend simulates the withdrawal processor.
type acceptingBackend struct{}

func (acceptingBackend) SubmitWithdrawal(ctx context.Context, req domain.WithdrawalRequest, approval *withdrawal.Approval) error {
	return ctx.Err()
}

func seedLedger(ctx context.Context, svc *ledger.Service) {
	now := time.Now()
	seed := []*domain.Transaction{
		{
			ID: uuid.New(), Reference: "BN-20240119-002", Type: domain.TxBonus,
			Amount: decimal.NewFromFloat(150.00), Description: "Welcome Bonus",
			Status: domain.TxStatusCompleted, Source: "System", CreatedAt: now.Add(-48 * time.Hour),
		},
		{
			ID: uuid.New(), Reference: "TR-20240118-003", Type: domain.TxEarning,
			Amount: decimal.NewFromFloat(320.50), Description: "Trading Profit - EURUSD",
			Status: domain.TxStatusCompleted, Source: "Trading", CreatedAt: now.Add(-72 * time.Hour),
		},
		{
			ID: uuid.New(), Reference: "WD-20240117-004", Type: domain.TxWithdrawal,
			Amount: decimal.NewFromFloat(-250.00), Fee: decimal.NewFromFloat(2.50),
			Description: "PayPal Withdrawal", Method: "PayPal",
			Status: domain.TxStatusPending, CreatedAt: now.Add(-96 * time.Hour),
		},
		{
			ID: uuid.New(), Reference: "TC-20240116-005", Type: domain.TxTeam,
			Amount: decimal.NewFromFloat(75.25), Description: "Team Commission - John Smith",
			Status: domain.TxStatusCompleted, Source: "Team", CreatedAt: now.Add(-120 * time.Hour),
		},
	}
	for _, tx := range seed {
		if err := svc.Record(ctx, tx); err != nil {
			log.Fatalf("seed ledger: %v", err)
		}
	}
}

func seedOffers(ctx context.Context, svc *offers.Service) {
	seed := []*offers.CreateOfferRequest{
		{
			Title:           "Welcome Bonus",
			Description:     "Get a $100 bonus when you complete your first trade",
			Type:            domain.OfferBonus,
			Reward:          decimal.NewFromInt(100),
			Currency:        "USD",
			Eligibility:     "New users only",
			StartDate:       time.Now().AddDate(0, -1, 0),
			EndDate:         time.Now().AddDate(0, 11, 0),
			MaxParticipants: 5000,
			Difficulty:      "Easy",
			Requirements:    []string{"Complete profile verification", "Make first trade of $50+"},
			Featured:        true,
		},
		{
			Title:       "Team Builder Reward",
			Description: "Earn 5% commission for every team member you refer",
			Type:        domain.OfferTeam,
			Reward:      decimal.NewFromInt(5),
			Currency:    "%",
			Eligibility: "All verified users",
			StartDate:   time.Now().AddDate(0, -1, 0),
			EndDate:     time.Now().AddDate(0, 11, 0),
			Difficulty:  "Medium",
			Requirements: []string{
				"Refer new users",
				"Referred users must be active",
			},
		},
	}
	for _, req := range seed {
		offer, err := svc.Create(ctx, req)
		if err != nil {
			log.Fatalf("seed offers: %v", err)
		}
		if err := svc.Activate(ctx, offer.ID); err != nil {
			log.Fatalf("activate offer: %v", err)
		}
	}
}
