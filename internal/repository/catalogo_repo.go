package repository

import (
	"context"
	"errors"

	"github.com/Marcos-ViniciusDEV/PDV/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogoRepository interface {
	UpsertProducts(ctx context.Context, products []model.Product) error
	UpsertOperators(ctx context.Context, operators []model.Operator) error
	FindProductByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	FindProductByCode(ctx context.Context, code string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	FindOperatorByID(ctx context.Context, id int) (*model.Operator, error)
	FindOperatorByEmail(ctx context.Context, email string) (*model.Operator, error)
	ListOperators(ctx context.Context) ([]model.Operator, error)
}

type catalogoRepo struct{ db *gorm.DB }

func NewCatalogoRepository(db *gorm.DB) CatalogoRepository { return &catalogoRepo{db: db} }

// Catalog IDs come from the central API, so loads are upserts keyed on
// the primary key.
func (r *catalogoRepo) UpsertProducts(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&products).Error
}

func (r *catalogoRepo) UpsertOperators(ctx context.Context, operators []model.Operator) error {
	if len(operators) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&operators).Error
}

func (r *catalogoRepo) FindProductByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("codigo_barras = ? AND ativo", barcode).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *catalogoRepo) FindProductByCode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("codigo = ? AND ativo", code).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *catalogoRepo) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("ativo").
		Order("descricao ASC").
		Find(&products).Error
	return products, err
}

func (r *catalogoRepo) FindOperatorByID(ctx context.Context, id int) (*model.Operator, error) {
	var o model.Operator
	err := r.db.WithContext(ctx).First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &o, err
}

func (r *catalogoRepo) FindOperatorByEmail(ctx context.Context, email string) (*model.Operator, error) {
	var o model.Operator
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &o, err
}

func (r *catalogoRepo) ListOperators(ctx context.Context) ([]model.Operator, error) {
	var ops []model.Operator
	err := r.db.WithContext(ctx).Order("name ASC").Find(&ops).Error
	return ops, err
}
