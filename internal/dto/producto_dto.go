package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type StockDTO struct {
	Quantity int    `json:"quantity" validate:"min=0"`
	Unit     string `json:"unit"     validate:"required,oneof=pieza kg litro gramo paquete caja"`
}

type PrecioDTO struct {
	Amount   decimal.Decimal `json:"amount"   validate:"min=0"`
	Currency string          `json:"currency" validate:"omitempty,oneof=MXN USD EUR"`
}

type CrearProductoRequest struct {
	NameProduct  string    `json:"name_product"  validate:"required,max=120"`
	Stock        StockDTO  `json:"stock"         validate:"required"`
	Price        PrecioDTO `json:"price"         validate:"required"`
	Category     string    `json:"category"      validate:"required,oneof=Equipamento Suplementos Ropa Accesorios Bebidas Otros"`
	Barcode      string    `json:"barcode"       validate:"max=64"`
	PurchaseDate *Fecha    `json:"purchase_date"`
	Status       string    `json:"status"        validate:"omitempty,oneof=Activo Inactivo Cancelado"`
	SupplierID   *string   `json:"supplier_id"   validate:"omitempty,uuid"`
	ImageURL     *string   `json:"image_url"`
}

type ActualizarProductoRequest struct {
	ID           string     `json:"id"            validate:"required,uuid"`
	NameProduct  *string    `json:"name_product"  validate:"omitempty,max=120"`
	Stock        *StockDTO  `json:"stock"`
	Price        *PrecioDTO `json:"price"`
	Category     *string    `json:"category"      validate:"omitempty,oneof=Equipamento Suplementos Ropa Accesorios Bebidas Otros"`
	Barcode      *string    `json:"barcode"       validate:"omitempty,max=64"`
	PurchaseDate *Fecha     `json:"purchase_date"`
	Status       *string    `json:"status"        validate:"omitempty,oneof=Activo Inactivo Cancelado"`
	SupplierID   *string    `json:"supplier_id"   validate:"omitempty,uuid"`
	ImageURL     *string    `json:"image_url"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Paginacion
	Category   string `form:"category"    validate:"omitempty,oneof=Equipamento Suplementos Ropa Accesorios Bebidas Otros"`
	Status     string `form:"status"      validate:"omitempty,oneof=Activo Inactivo Agotado Cancelado"`
	SupplierID string `form:"supplier_id" validate:"omitempty,uuid"`
	Search     string `form:"search"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID            string              `json:"_id"`
	NameProduct   string              `json:"name_product"`
	Stock         StockDTO            `json:"stock"`
	Price         PrecioDTO           `json:"price"`
	Category      string              `json:"category"`
	Barcode       string              `json:"barcode"`
	PurchaseDate  string              `json:"purchase_date"`
	Status        string              `json:"status"`
	SalesObtained int                 `json:"sales_obtained"`
	SupplierID    *string             `json:"supplier_id"`
	GymID         string              `json:"gym_id"`
	ImageURL      *string             `json:"image_url"`
	RegisteredBy  RefUsuarioResponse  `json:"registered_by"`
	UpdatedBy     *RefUsuarioResponse `json:"updated_by"`
	CreatedAt     string              `json:"createdAt"`
	UpdatedAt     string              `json:"updatedAt"`
}

type ProductoListResponse struct {
	Products   []ProductoResponse `json:"products"`
	Pagination PaginacionResponse `json:"pagination"`
}

type MovimientoStockResponse struct {
	ID            string  `json:"_id"`
	Tipo          string  `json:"type"`
	Cantidad      int     `json:"quantity"`
	StockAnterior int     `json:"stock_before"`
	StockNuevo    int     `json:"stock_after"`
	Motivo        string  `json:"reason"`
	ReferenciaID  *string `json:"reference_id"`
	UsuarioID     string  `json:"user_id"`
	UsuarioTipo   string  `json:"user_type"`
	CreatedAt     string  `json:"createdAt"`
}

type MovimientoStockListResponse struct {
	Movements  []MovimientoStockResponse `json:"movements"`
	Pagination PaginacionResponse        `json:"pagination"`
}
