package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Marcos-ViniciusDEV/PDV/internal/apierror"
	"github.com/Marcos-ViniciusDEV/PDV/internal/dto"
	"github.com/Marcos-ViniciusDEV/PDV/internal/model"
	"github.com/Marcos-ViniciusDEV/PDV/internal/repository"
)

const (
	catalogCachePrefix = "catalogo:produto:"
	catalogCacheTTL    = 60 * time.Second
)

// CatalogoService serves product lookups for the sale screen and pulls
// catalog refreshes from the central API. Lookups go through a short
// Redis cache because barcode scans hammer the same handful of rows.
type CatalogoService interface {
	// Load pulls the full catalog from the central API and upserts it
	// locally, then drops the lookup cache.
	Load(ctx context.Context) error
	ProdutoPorBarcode(ctx context.Context, barcode string) (*dto.ProdutoResponse, error)
	ProdutoPorCodigo(ctx context.Context, code string) (*dto.ProdutoResponse, error)
	Produtos(ctx context.Context) ([]dto.ProdutoResponse, error)
}

type catalogoService struct {
	repo   repository.CatalogoRepository
	client CentralAPI
	rdb    *redis.Client
}

func NewCatalogoService(repo repository.CatalogoRepository, client CentralAPI, rdb *redis.Client) CatalogoService {
	return &catalogoService{repo: repo, client: client, rdb: rdb}
}

func (s *catalogoService) Load(ctx context.Context) error {
	data, err := s.client.FetchCatalog(ctx)
	if err != nil {
		return err
	}

	products := make([]model.Product, 0, len(data.Produtos))
	for _, p := range data.Produtos {
		products = append(products, model.Product{
			ID:         p.ID,
			Code:       p.Codigo,
			Barcode:    p.CodigoBarras,
			Descricao:  p.Descricao,
			PrecoVenda: p.PrecoVenda,
			Unit:       p.Unidade,
			Stock:      p.Estoque,
			Active:     true,
		})
	}
	operators := make([]model.Operator, 0, len(data.Usuarios))
	for _, u := range data.Usuarios {
		operators = append(operators, model.Operator{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
		})
	}

	if err := s.repo.UpsertProducts(ctx, products); err != nil {
		return apierror.Persistence("gravar catálogo de produtos", err)
	}
	if err := s.repo.UpsertOperators(ctx, operators); err != nil {
		return apierror.Persistence("gravar operadores", err)
	}

	s.invalidateCache(ctx)

	log.Info().
		Int("produtos", len(products)).
		Int("usuarios", len(operators)).
		Msg("catálogo carregado do servidor central")
	return nil
}

func (s *catalogoService) ProdutoPorBarcode(ctx context.Context, barcode string) (*dto.ProdutoResponse, error) {
	return s.lookup(ctx, "barcode:"+barcode, func() (*model.Product, error) {
		return s.repo.FindProductByBarcode(ctx, barcode)
	})
}

func (s *catalogoService) ProdutoPorCodigo(ctx context.Context, code string) (*dto.ProdutoResponse, error) {
	return s.lookup(ctx, "codigo:"+code, func() (*model.Product, error) {
		return s.repo.FindProductByCode(ctx, code)
	})
}

func (s *catalogoService) lookup(ctx context.Context, cacheKey string, find func() (*model.Product, error)) (*dto.ProdutoResponse, error) {
	key := catalogCachePrefix + cacheKey

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp dto.ProdutoResponse
			if json.Unmarshal([]byte(raw), &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := find()
	if err == repository.ErrNotFound {
		return nil, apierror.InvalidState("produto não encontrado")
	}
	if err != nil {
		return nil, apierror.Persistence("consultar produto", err)
	}

	resp := toProdutoResponse(p)
	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, raw, catalogCacheTTL).Err(); err != nil {
				log.Debug().Err(err).Msg("cache de produto indisponível")
			}
		}
	}
	return &resp, nil
}

func (s *catalogoService) Produtos(ctx context.Context) ([]dto.ProdutoResponse, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, apierror.Persistence("listar produtos", err)
	}
	out := make([]dto.ProdutoResponse, 0, len(products))
	for i := range products {
		out = append(out, toProdutoResponse(&products[i]))
	}
	return out, nil
}

func (s *catalogoService) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	iter := s.rdb.Scan(ctx, 0, catalogCachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			log.Debug().Err(err).Msg("falha ao invalidar cache de produto")
		}
	}
	if err := iter.Err(); err != nil {
		log.Debug().Err(err).Msg("varredura do cache de produtos falhou")
	}
}

func toProdutoResponse(p *model.Product) dto.ProdutoResponse {
	return dto.ProdutoResponse{
		ID:         p.ID,
		Codigo:     p.Code,
		Barcode:    p.Barcode,
		Descricao:  p.Descricao,
		PrecoVenda: p.PrecoVenda,
		Unidade:    p.Unit,
		Estoque:    p.Stock,
	}
}
