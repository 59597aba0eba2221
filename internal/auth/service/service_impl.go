package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/offerdesk/offerdesk/internal/auth/domain"
	"github.com/offerdesk/offerdesk/internal/auth/password"
	"github.com/offerdesk/offerdesk/internal/auth/token"
	"github.com/offerdesk/offerdesk/internal/clock"
	companydomain "github.com/offerdesk/offerdesk/internal/company/domain"
	"github.com/offerdesk/offerdesk/internal/config"
	userdomain "github.com/offerdesk/offerdesk/internal/user/domain"
	"github.com/offerdesk/offerdesk/pkg/tenantctx"
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
	Tokens      *token.Manager
	Repo        domain.Repository
	UserRepo    userdomain.Repository
	CompanyRepo companydomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	cfg         config.Config
	tokens      *token.Manager
	repo        domain.Repository
	userRepo    userdomain.Repository
	companyRepo companydomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("auth.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		cfg:         p.Cfg,
		tokens:      p.Tokens,
		repo:        p.Repo,
		userRepo:    p.UserRepo,
		companyRepo: p.CompanyRepo,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (domain.TokenPair, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if strings.TrimSpace(req.CompanyName) == "" ||
		email == "" || !strings.Contains(email, "@") ||
		req.Password == "" {
		return domain.TokenPair{}, domain.ErrInvalidInput
	}

	existing, err := s.userRepo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if existing != nil {
		return domain.TokenPair{}, userdomain.ErrEmailTaken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.TokenPair{}, err
	}

	now := s.clock.Now()
	company := companydomain.Company{
		ID:                    s.genID.Generate(),
		Name:                  strings.TrimSpace(req.CompanyName),
		Email:                 email,
		SubscriptionPlan:      companydomain.PlanFree,
		SubscriptionStartDate: now,
		IsActive:              true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	user := userdomain.User{
		ID:           s.genID.Generate(),
		CompanyID:    company.ID,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         tenantctx.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.companyRepo.Insert(ctx, tx, &company); err != nil {
			return err
		}
		return s.userRepo.Insert(ctx, tx, &user)
	})
	if err != nil {
		return domain.TokenPair{}, err
	}

	s.log.Info("tenant registered",
		zap.String("company_id", company.ID.String()),
		zap.String("user_id", user.ID.String()),
	)
	return s.issuePair(ctx, &user)
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.TokenPair, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return domain.TokenPair{}, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if user == nil || !password.Verify(req.Password, user.PasswordHash) {
		return domain.TokenPair{}, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return domain.TokenPair{}, domain.ErrUserInactive
	}

	return s.issuePair(ctx, user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	rt, err := s.repo.FindToken(ctx, s.db, refreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if rt == nil || rt.Revoked || rt.ExpiresAt.Before(s.clock.Now()) {
		return domain.TokenPair{}, domain.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, s.db, rt.UserID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if user == nil {
		return domain.TokenPair{}, domain.ErrInvalidToken
	}
	if !user.IsActive {
		return domain.TokenPair{}, domain.ErrUserInactive
	}

	if err := s.repo.RevokeToken(ctx, s.db, refreshToken); err != nil {
		return domain.TokenPair{}, err
	}
	return s.issuePair(ctx, user)
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	rt, err := s.repo.FindToken(ctx, s.db, refreshToken)
	if err != nil {
		return err
	}
	if rt == nil {
		return domain.ErrInvalidToken
	}
	return s.repo.RevokeToken(ctx, s.db, refreshToken)
}

func (s *Service) issuePair(ctx context.Context, user *userdomain.User) (domain.TokenPair, error) {
	now := s.clock.Now()

	access, err := s.tokens.Issue(user.CompanyID, user.ID, user.Role, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh := domain.RefreshToken{
		ID:        s.genID.Generate(),
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
		CreatedAt: now,
	}
	if err := s.repo.InsertToken(ctx, s.db, &refresh); err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh.Token,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}
