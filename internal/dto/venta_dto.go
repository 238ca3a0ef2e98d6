package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type VenderProductoRequest struct {
	ProductID    string           `json:"product_id"    validate:"required,uuid"`
	QuantitySold int              `json:"quantity_sold" validate:"required,min=1"`
	ClientID     string           `json:"client_id"     validate:"required,uuid"`
	SaleCode     string           `json:"sale_code"     validate:"required,max=64"`
	SalePrice    *decimal.Decimal `json:"sale_price"`
}

type CancelarVentaRequest struct {
	ID     string `json:"id"     validate:"required,uuid"`
	Reason string `json:"reason" validate:"max=500"`
}

type EliminarVentasRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=500,dive,uuid"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /api/productSale/all and /export.
type VentaFilter struct {
	Paginacion
	Status    string `form:"status"     validate:"omitempty,oneof=Exitosa Pendiente Cancelada"`
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	ClientID  string `form:"client_id"  validate:"omitempty,uuid"`
	From      string `form:"from"` // YYYY-MM-DD
	To        string `form:"to"`   // YYYY-MM-DD, inclusive
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaResponse struct {
	ID                 string          `json:"_id"`
	ProductID          string          `json:"product_id"`
	ProductName        string          `json:"product_name"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	QuantitySold       int             `json:"quantity_sold"`
	SaleCode           string          `json:"sale_code"`
	ClientID           string          `json:"client_id"`
	ClientName         string          `json:"client_name"`
	SaleDate           string          `json:"sale_date"`
	SellerID           string          `json:"seller_id"`
	SellerName         string          `json:"seller_name"`
	SellerRole         string          `json:"seller_role"`
	SaleStatus         string          `json:"sale_status"`
	TotalSale          decimal.Decimal `json:"total_sale"`
	GymID              string          `json:"gym_id"`
	CancellationReason *string         `json:"cancellation_reason"`
	CancelledByID      *string         `json:"cancelled_by_id"`
	CancelledByType    *string         `json:"cancelled_by_type"`
	CancelledAt        *string         `json:"cancelled_at"`
	CreatedAt          string          `json:"createdAt"`
}

// VentaDetalleResponse is returned by sell and cancel: the sale plus the
// product state after the stock movement.
type VentaDetalleResponse struct {
	Message string            `json:"message"`
	Sale    VentaResponse     `json:"sale"`
	Product *ProductoResponse `json:"product,omitempty"`
}

type VentaListResponse struct {
	Sales      []VentaResponse    `json:"sales"`
	Pagination PaginacionResponse `json:"pagination"`
	Resumen    VentaResumen       `json:"summary"`
}

type VentaResumen struct {
	TotalVentas      int64           `json:"total_sales"`
	UnidadesVendidas int64           `json:"units_sold"`
	Ingresos         decimal.Decimal `json:"revenue"`
}

type EliminarVentasResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}
