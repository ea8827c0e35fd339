package dto

// Wire DTOs for the central API. Field names follow the central
// contract; requests are retried verbatim, so these shapes must stay
// stable.

type ItemVendaSync struct {
	ProdutoID     int   `json:"produtoId"`
	Quantidade    int   `json:"quantidade"`
	PrecoUnitario int64 `json:"precoUnitario"`
	ValorTotal    int64 `json:"valorTotal"`
	ValorDesconto int64 `json:"valorDesconto"`
}

type VendaSync struct {
	UUID           string          `json:"uuid"`
	NumeroVenda    string          `json:"numeroVenda"`
	CCF            string          `json:"ccf"`
	COO            string          `json:"coo"`
	PDVID          string          `json:"pdvId"`
	DataVenda      string          `json:"dataVenda"`
	ValorTotal     int64           `json:"valorTotal"`
	ValorDesconto  int64           `json:"valorDesconto"`
	ValorLiquido   int64           `json:"valorLiquido"`
	FormaPagamento string          `json:"formaPagamento"`
	OperadorID     int             `json:"operadorId"`
	OperadorNome   string          `json:"operadorNome"`
	Itens          []ItemVendaSync `json:"itens"`
}

type MovimentoCaixaSync struct {
	UUID          string `json:"uuid"`
	Tipo          string `json:"tipo"`
	Valor         int64  `json:"valor"`
	Observacao    string `json:"observacao"`
	OperadorID    int    `json:"operadorId"`
	DataMovimento string `json:"dataMovimento"`
}

type SyncBatchRequest struct {
	Vendas          []VendaSync          `json:"vendas"`
	MovimentosCaixa []MovimentoCaixaSync `json:"movimentosCaixa"`
}

// ProdutoCatalogo / UsuarioCatalogo mirror the central carga-inicial
// payload.
type ProdutoCatalogo struct {
	ID           int     `json:"id"`
	Codigo       string  `json:"codigo"`
	CodigoBarras *string `json:"codigoBarras"`
	Descricao    string  `json:"descricao"`
	PrecoVenda   int64   `json:"precoVenda"`
	Unidade      string  `json:"unidade"`
	Estoque      int     `json:"estoque"`
}

type UsuarioCatalogo struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PasswordHash *string `json:"passwordHash"`
	Role         string  `json:"role"`
}

type CatalogData struct {
	Produtos []ProdutoCatalogo `json:"produtos"`
	Usuarios []UsuarioCatalogo `json:"usuarios"`
}

// SyncResult is the local outcome of one sync cycle.
type SyncResult struct {
	Success bool   `json:"success"`
	Synced  int    `json:"synced"`
	Reason  string `json:"reason,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SyncStatusResponse reports the connectivity state of the terminal.
type SyncStatusResponse struct {
	IsOnline  bool   `json:"is_online"`
	PDVID     string `json:"pdv_id"`
	LastCheck string `json:"last_check"`
}
