package dto

type LoginRequest struct {
	// Identifier accepts either the numeric operator id or the email.
	Identifier string `json:"identifier" validate:"required,min=1"`
	Password   string `json:"password"   validate:"required,min=1"`
}

type OperatorResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int              `json:"expires_in"`
	Operator    OperatorResponse `json:"operator"`
}

type ProdutoResponse struct {
	ID         int     `json:"id"`
	Codigo     string  `json:"codigo"`
	Barcode    *string `json:"codigo_barras"`
	Descricao  string  `json:"descricao"`
	PrecoVenda int64   `json:"preco_venda"`
	Unidade    string  `json:"unidade"`
	Estoque    int     `json:"estoque"`
}
