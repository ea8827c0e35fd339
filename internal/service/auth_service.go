package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Marcos-ViniciusDEV/PDV/internal/config"
	"github.com/Marcos-ViniciusDEV/PDV/internal/dto"
	"github.com/Marcos-ViniciusDEV/PDV/internal/model"
	"github.com/Marcos-ViniciusDEV/PDV/internal/repository"
)

// AuthService validates operator credentials against the locally synced
// user table, so login keeps working with the central server down.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Operadores(ctx context.Context) ([]dto.OperatorResponse, error)
}

type authService struct {
	repo repository.CatalogoRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.CatalogoRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	var (
		op  *model.Operator
		err error
	)
	if id, convErr := strconv.Atoi(req.Identifier); convErr == nil {
		op, err = s.repo.FindOperatorByID(ctx, id)
	} else {
		op, err = s.repo.FindOperatorByEmail(ctx, req.Identifier)
	}
	if err != nil {
		return nil, errors.New("credenciais inválidas")
	}
	if op.PasswordHash == nil {
		return nil, errors.New("credenciais inválidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*op.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("credenciais inválidas")
	}

	token, err := s.generateToken(op)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		Operator: dto.OperatorResponse{
			ID:    op.ID,
			Name:  op.Name,
			Email: op.Email,
			Role:  op.Role,
		},
	}, nil
}

func (s *authService) Operadores(ctx context.Context) ([]dto.OperatorResponse, error) {
	ops, err := s.repo.ListOperators(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.OperatorResponse, len(ops))
	for i, op := range ops {
		resp[i] = dto.OperatorResponse{ID: op.ID, Name: op.Name, Email: op.Email, Role: op.Role}
	}
	return resp, nil
}

func (s *authService) generateToken(op *model.Operator) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"operator_id": op.ID,
		"name":        op.Name,
		"role":        op.Role,
		"exp":         now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":         now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
