package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/offerdesk/offerdesk/internal/clock"
	companydomain "github.com/offerdesk/offerdesk/internal/company/domain"
	"github.com/offerdesk/offerdesk/internal/config"
	"github.com/offerdesk/offerdesk/internal/observability"
	"github.com/offerdesk/offerdesk/internal/offer/domain"
	"github.com/offerdesk/offerdesk/internal/providers/email"
	"github.com/offerdesk/offerdesk/internal/providers/pdf"
	"github.com/offerdesk/offerdesk/pkg/db/pagination"
	"github.com/offerdesk/offerdesk/pkg/tenantctx"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Cfg         config.Config
	Plans       *config.PlanLimitsHolder
	Metrics     *observability.OfferMetrics
	Repo        domain.Repository
	CompanyRepo companydomain.Repository
	Email       email.Provider
	PDF         pdf.Provider
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	cfg         config.Config
	plans       *config.PlanLimitsHolder
	metrics     *observability.OfferMetrics
	repo        domain.Repository
	companyRepo companydomain.Repository
	email       email.Provider
	pdf         pdf.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("offer.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		cfg:         p.Cfg,
		plans:       p.Plans,
		metrics:     p.Metrics,
		repo:        p.Repo,
		companyRepo: p.CompanyRepo,
		email:       p.Email,
		pdf:         p.PDF,
	}
}

func validateOfferInput(customerName, customerEmail string, items []domain.OfferItemRequest) error {
	if strings.TrimSpace(customerName) == "" || strings.TrimSpace(customerEmail) == "" {
		return domain.ErrInvalidInput
	}
	if len(items) == 0 {
		return domain.ErrInvalidInput
	}
	for _, item := range items {
		if strings.TrimSpace(item.Description) == "" || item.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func (s *Service) buildItems(offerID snowflake.ID, reqs []domain.OfferItemRequest) []domain.OfferItem {
	items := make([]domain.OfferItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, domain.OfferItem{
			ID:          s.genID.Generate(),
			OfferID:     offerID,
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
			Discount:    r.Discount,
			VatRate:     r.VatRate,
			TotalPrice:  domain.ItemTotal(r.Quantity, r.UnitPrice),
		})
	}
	return items
}

func (s *Service) Create(ctx context.Context, req domain.CreateOfferRequest) (domain.Offer, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.Offer{}, domain.ErrNotFound
	}

	if err := validateOfferInput(req.CustomerName, req.CustomerEmail, req.Items); err != nil {
		return domain.Offer{}, err
	}

	company, err := s.companyRepo.FindByID(ctx, s.db, tc.CompanyID)
	if err != nil {
		return domain.Offer{}, err
	}
	if company == nil {
		return domain.Offer{}, companydomain.ErrNotFound
	}

	now := s.clock.Now()
	if err := companydomain.CheckOfferQuota(company, s.plans.Get().FreeOfferLimit, now); err != nil {
		// An expired subscription is demoted to inactive even though the
		// request itself is rejected.
		if err == companydomain.ErrSubscriptionExpired {
			if uerr := s.companyRepo.Update(ctx, s.db, company); uerr != nil {
				s.log.Warn("persisting expired subscription failed",
					zap.String("company_id", company.ID.String()),
					zap.Error(uerr),
				)
			}
		}
		return domain.Offer{}, err
	}

	last, err := s.repo.FindLastByCompany(ctx, s.db, tc.CompanyID)
	if err != nil {
		return domain.Offer{}, err
	}
	lastNumber := ""
	if last != nil {
		lastNumber = last.OfferNumber
	}

	currency := req.Currency
	if currency == "" {
		currency = domain.CurrencyTRY
	}

	offer := domain.Offer{
		ID:              s.genID.Generate(),
		CompanyID:       tc.CompanyID,
		UserID:          tc.UserID,
		OfferNumber:     domain.NextNumber(lastNumber, now),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		OfferDate:       req.OfferDate,
		DueDate:         req.DueDate,
		Currency:        currency,
		Notes:           req.Notes,
		Status:          domain.StatusDraft,
		PublicToken:     uuid.NewString(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	offer.Items = s.buildItems(offer.ID, req.Items)
	offer.TotalAmount = domain.SumItems(offer.Items)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &offer); err != nil {
			return err
		}
		company.OffersUsed++
		company.UpdatedAt = now
		return s.companyRepo.Update(ctx, tx, company)
	})
	if err != nil {
		return domain.Offer{}, err
	}

	s.metrics.Transition(string(domain.StatusDraft), 1)
	s.log.Info("offer created",
		zap.String("offer_id", offer.ID.String()),
		zap.String("offer_number", offer.OfferNumber),
		zap.String("company_id", tc.CompanyID.String()),
	)
	return offer, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Offer, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.Offer{}, domain.ErrNotFound
	}

	offer, err := s.repo.FindByID(ctx, s.db, tc.CompanyID, id)
	if err != nil {
		return domain.Offer{}, err
	}
	if offer == nil {
		return domain.Offer{}, domain.ErrNotFound
	}
	return *offer, nil
}

func (s *Service) ListByCompany(ctx context.Context, page pagination.Pagination) ([]domain.Offer, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return nil, domain.ErrNotFound
	}

	if _, err := s.SweepExpired(ctx, tc.CompanyID, s.clock.Now()); err != nil {
		return nil, err
	}
	return s.repo.ListByCompany(ctx, s.db, tc.CompanyID, page)
}

func (s *Service) ListByUser(ctx context.Context, page pagination.Pagination) ([]domain.Offer, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return nil, domain.ErrNotFound
	}

	swept, err := s.repo.ExpireOverdueByUser(ctx, s.db, tc.UserID, s.clock.Now())
	if err != nil {
		s.log.Error("expiration sweep failed", zap.Error(err))
		return nil, domain.ErrSweepFailed
	}
	if swept > 0 {
		s.metrics.Transition(string(domain.StatusExpired), int(swept))
		s.log.Info("offers expired", zap.Int64("count", swept))
	}
	return s.repo.ListByUser(ctx, s.db, tc.UserID, page)
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateOfferRequest) (domain.Offer, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.Offer{}, domain.ErrNotFound
	}

	if err := validateOfferInput(req.CustomerName, req.CustomerEmail, req.Items); err != nil {
		return domain.Offer{}, err
	}

	offer, err := s.repo.FindByIDForUser(ctx, s.db, tc.UserID, id)
	if err != nil {
		return domain.Offer{}, err
	}
	if offer == nil {
		return domain.Offer{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	currency := req.Currency
	if currency == "" {
		currency = domain.CurrencyTRY
	}

	offer.CustomerName = req.CustomerName
	offer.CustomerEmail = req.CustomerEmail
	offer.CustomerPhone = req.CustomerPhone
	offer.CustomerAddress = req.CustomerAddress
	offer.OfferDate = req.OfferDate
	offer.DueDate = req.DueDate
	offer.Currency = currency
	offer.Notes = req.Notes
	offer.UpdatedAt = now

	items := s.buildItems(offer.ID, req.Items)
	offer.TotalAmount = domain.SumItems(items)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.ReplaceItems(ctx, tx, offer.ID, items); err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, offer)
	})
	if err != nil {
		return domain.Offer{}, err
	}

	offer.Items = items
	return *offer, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.ErrNotFound
	}

	deleted, err := s.repo.Delete(ctx, s.db, tc.UserID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) Send(ctx context.Context, id snowflake.ID) error {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.ErrNotFound
	}

	offer, err := s.repo.FindByIDForUser(ctx, s.db, tc.UserID, id)
	if err != nil {
		return err
	}
	if offer == nil {
		return domain.ErrNotFound
	}

	company, err := s.companyRepo.FindByID(ctx, s.db, offer.CompanyID)
	if err != nil {
		return err
	}
	if company == nil {
		return companydomain.ErrNotFound
	}

	doc, err := s.pdf.GenerateOffer(ctx, s.offerData(offer, company))
	if err != nil {
		s.log.Error("offer render failed",
			zap.String("offer_id", offer.ID.String()),
			zap.Error(err),
		)
		return domain.ErrRenderFailed
	}

	subject := "Teklif - " + offer.OfferNumber
	body := fmt.Sprintf(
		"<p>Sayın %s,</p><p>%s tarafından hazırlanan %s numaralı teklif ektedir.</p><p>İyi günler dileriz.</p>",
		offer.CustomerName, company.Name, offer.OfferNumber,
	)
	attachment := email.Attachment{
		Filename:    offer.OfferNumber + ".pdf",
		ContentType: "application/pdf",
		Data:        doc,
	}

	if err := s.email.Send(ctx, []string{offer.CustomerEmail}, subject, body, attachment); err != nil {
		s.log.Error("offer email failed",
			zap.String("offer_id", offer.ID.String()),
			zap.Error(err),
		)
		return domain.ErrSendFailed
	}

	// Status moves to Sent only after the mail actually went out.
	// Re-sending resets any current status, which re-arms the
	// Sent -> Viewed transition on the next PDF read.
	offer.Status = domain.StatusSent
	offer.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, offer); err != nil {
		return err
	}
	s.metrics.Transition(string(domain.StatusSent), 1)

	s.log.Info("offer sent",
		zap.String("offer_id", offer.ID.String()),
		zap.String("to", offer.CustomerEmail),
	)
	return nil
}

func (s *Service) setStatus(ctx context.Context, id snowflake.ID, status domain.Status) error {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return domain.ErrNotFound
	}

	offer, err := s.repo.FindByIDForUser(ctx, s.db, tc.UserID, id)
	if err != nil {
		return err
	}
	if offer == nil {
		return domain.ErrNotFound
	}

	// The lifecycle is a flat action model: no precondition on the
	// current status.
	offer.Status = status
	offer.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, offer); err != nil {
		return err
	}
	s.metrics.Transition(string(status), 1)
	return nil
}

func (s *Service) Accept(ctx context.Context, id snowflake.ID) error {
	return s.setStatus(ctx, id, domain.StatusAccepted)
}

func (s *Service) Reject(ctx context.Context, id snowflake.ID) error {
	return s.setStatus(ctx, id, domain.StatusRejected)
}

func (s *Service) Cancel(ctx context.Context, id snowflake.ID) error {
	return s.setStatus(ctx, id, domain.StatusCancelled)
}

func (s *Service) GetPDF(ctx context.Context, id snowflake.ID) ([]byte, string, error) {
	tc, ok := tenantctx.FromContext(ctx)
	if !ok {
		return nil, "", domain.ErrNotFound
	}

	offer, err := s.repo.FindByID(ctx, s.db, tc.CompanyID, id)
	if err != nil {
		return nil, "", err
	}
	if offer == nil {
		return nil, "", domain.ErrNotFound
	}

	return s.renderAndMarkViewed(ctx, offer)
}

func (s *Service) GetPublic(ctx context.Context, token string) (domain.Offer, error) {
	offer, err := s.repo.FindByPublicToken(ctx, s.db, token)
	if err != nil {
		return domain.Offer{}, err
	}
	if offer == nil {
		return domain.Offer{}, domain.ErrNotFound
	}
	if offer.TokenExpiresAt != nil && offer.TokenExpiresAt.Before(s.clock.Now()) {
		return domain.Offer{}, domain.ErrTokenExpired
	}
	return *offer, nil
}

func (s *Service) GetPublicPDF(ctx context.Context, token string) ([]byte, string, error) {
	offer, err := s.repo.FindByPublicToken(ctx, s.db, token)
	if err != nil {
		return nil, "", err
	}
	if offer == nil {
		return nil, "", domain.ErrNotFound
	}
	if offer.TokenExpiresAt != nil && offer.TokenExpiresAt.Before(s.clock.Now()) {
		return nil, "", domain.ErrTokenExpired
	}

	return s.renderAndMarkViewed(ctx, offer)
}

// renderAndMarkViewed renders the document and records the first read of a
// Sent offer. The transition fires only from exactly Sent, so repeat reads
// and reads of Accepted or Expired offers change nothing.
func (s *Service) renderAndMarkViewed(ctx context.Context, offer *domain.Offer) ([]byte, string, error) {
	company, err := s.companyRepo.FindByID(ctx, s.db, offer.CompanyID)
	if err != nil {
		return nil, "", err
	}
	if company == nil {
		return nil, "", companydomain.ErrNotFound
	}

	doc, err := s.pdf.GenerateOffer(ctx, s.offerData(offer, company))
	if err != nil {
		s.log.Error("offer render failed",
			zap.String("offer_id", offer.ID.String()),
			zap.Error(err),
		)
		return nil, "", domain.ErrRenderFailed
	}

	if offer.Status == domain.StatusSent {
		offer.Status = domain.StatusViewed
		offer.UpdatedAt = s.clock.Now()
		if err := s.repo.Update(ctx, s.db, offer); err != nil {
			return nil, "", err
		}
		s.metrics.Transition(string(domain.StatusViewed), 1)
	}

	return doc, offer.OfferNumber + ".pdf", nil
}

func (s *Service) SweepExpired(ctx context.Context, companyID snowflake.ID, now time.Time) (int64, error) {
	swept, err := s.repo.ExpireOverdueByCompany(ctx, s.db, companyID, now)
	if err != nil {
		s.log.Error("expiration sweep failed",
			zap.String("company_id", companyID.String()),
			zap.Error(err),
		)
		return 0, domain.ErrSweepFailed
	}
	if swept > 0 {
		s.metrics.Transition(string(domain.StatusExpired), int(swept))
		s.log.Info("offers expired",
			zap.String("company_id", companyID.String()),
			zap.Int64("count", swept),
		)
	}
	return swept, nil
}

func (s *Service) offerData(offer *domain.Offer, company *companydomain.Company) pdf.OfferData {
	const dateLayout = "02.01.2006"

	amount := func(d decimal.Decimal) string {
		return d.StringFixed(2) + " " + string(offer.Currency)
	}

	dueDate := "-"
	if offer.DueDate != nil {
		dueDate = offer.DueDate.Format(dateLayout)
	}

	data := pdf.OfferData{
		CompanyName:    company.Name,
		CompanyAddress: company.Address,
		CompanyPhone:   company.Phone,
		CompanyEmail:   company.Email,

		OfferNumber: offer.OfferNumber,
		OfferDate:   offer.OfferDate.Format(dateLayout),
		DueDate:     dueDate,
		Status:      string(offer.Status),

		CustomerName:    offer.CustomerName,
		CustomerEmail:   offer.CustomerEmail,
		CustomerAddress: offer.CustomerAddress,
	}
	if company.TaxNumber != nil {
		data.CompanyTaxNo = "Vergi No: " + *company.TaxNumber
	}
	if company.IBAN != nil {
		data.CompanyIBAN = *company.IBAN
	}
	if offer.CustomerPhone != nil {
		data.CustomerPhone = *offer.CustomerPhone
	}
	if offer.Notes != nil {
		data.Notes = *offer.Notes
	}

	if company.Logo != nil {
		rel := strings.TrimPrefix(*company.Logo, "/uploads/")
		path := filepath.Join(s.cfg.UploadsDir, rel)
		if _, err := os.Stat(path); err == nil {
			data.LogoPath = path
		}
	}

	for _, item := range offer.Items {
		data.Items = append(data.Items, pdf.OfferItemData{
			Description: item.Description,
			Quantity:    int64(item.Quantity),
			UnitPrice:   amount(item.UnitPrice),
			Discount:    item.Discount.StringFixed(2),
			VatRate:     item.VatRate.StringFixed(2),
			Total:       amount(item.TotalPrice),
		})
	}

	b := domain.ComputeBreakdown(offer.Items)
	data.Subtotal = amount(b.Subtotal)
	data.DiscountAmount = amount(b.DiscountAmount)
	data.VatAmount = amount(b.VatAmount)
	data.GrandTotal = amount(b.GrandTotal)

	return data
}
