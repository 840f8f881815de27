package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/trazabilidad-pro/internal/application/traceability"
)

// TracedShipmentResponse envío de un lote con el cliente que lo recibió.
type TracedShipmentResponse struct {
	Shipment ShipmentResponse `json:"shipment"`
	Customer CustomerResponse `json:"customer"`
	Quantity decimal.Decimal  `json:"quantity"`
}

// TracedFinishedLotResponse lote de acabado producido con un material.
type TracedFinishedLotResponse struct {
	Lot       LotResponse              `json:"lot"`
	Product   ProductResponse          `json:"product"`
	Order     OrderResponse            `json:"order"`
	Consumed  decimal.Decimal          `json:"consumed_quantity"`
	Shipments []TracedShipmentResponse `json:"shipments"`
}

// TracedReturnResponse devolución en la que volvió un lote. El cliente
// puede faltar en retiradas internas.
type TracedReturnResponse struct {
	Return   ReturnResponse    `json:"return"`
	Customer *CustomerResponse `json:"customer,omitempty"`
	Quantity decimal.Decimal   `json:"quantity"`
}

// ForwardTraceResponse respuesta de «¿a dónde fue este lote?».
type ForwardTraceResponse struct {
	Lot             LotResponse                 `json:"lot"`
	Product         ProductResponse             `json:"product"`
	FinishedLots    []TracedFinishedLotResponse `json:"finished_lots"`
	DirectShipments []TracedShipmentResponse    `json:"direct_shipments"`
	Returns         []TracedReturnResponse      `json:"returns"`
	Adjustments     []MovementResponse          `json:"adjustments"`
}

// ForwardTrace convierte la traza hacia delante.
func ForwardTrace(t *traceability.ForwardTrace) ForwardTraceResponse {
	finished := make([]TracedFinishedLotResponse, 0, len(t.FinishedLots))
	for _, fl := range t.FinishedLots {
		finished = append(finished, TracedFinishedLotResponse{
			Lot:       Lot(fl.Lot),
			Product:   Product(fl.Product),
			Order:     Order(fl.Order),
			Consumed:  fl.Consumed,
			Shipments: tracedShipments(fl.Shipments),
		})
	}
	returns := make([]TracedReturnResponse, 0, len(t.Returns))
	for _, row := range t.Returns {
		item := TracedReturnResponse{Return: Return(row.Return), Quantity: row.Detail.Quantity}
		if row.Customer != nil {
			c := Customer(row.Customer)
			item.Customer = &c
		}
		returns = append(returns, item)
	}
	return ForwardTraceResponse{
		Lot:             Lot(t.Lot),
		Product:         Product(t.Product),
		FinishedLots:    finished,
		DirectShipments: tracedShipments(t.DirectShipments),
		Returns:         returns,
		Adjustments:     Movements(t.Adjustments),
	}
}

func tracedShipments(items []*traceability.TracedShipment) []TracedShipmentResponse {
	out := make([]TracedShipmentResponse, 0, len(items))
	for _, ts := range items {
		out = append(out, TracedShipmentResponse{
			Shipment: Shipment(ts.Shipment),
			Customer: Customer(ts.Customer),
			Quantity: ts.Quantity,
		})
	}
	return out
}

// TracedMaterialResponse lote de material consumido en la producción.
type TracedMaterialResponse struct {
	Lot      LotResponse     `json:"lot"`
	Product  ProductResponse `json:"product"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ReverseTraceResponse respuesta de «¿de qué está hecho este lote?».
// Order falta si el lote entró por recepción.
type ReverseTraceResponse struct {
	Lot       LotResponse              `json:"lot"`
	Product   ProductResponse          `json:"product"`
	Order     *OrderResponse           `json:"order,omitempty"`
	Materials []TracedMaterialResponse `json:"materials"`
}

// ReverseTrace convierte la traza hacia atrás.
func ReverseTrace(t *traceability.ReverseTrace) ReverseTraceResponse {
	materials := make([]TracedMaterialResponse, 0, len(t.Materials))
	for _, m := range t.Materials {
		materials = append(materials, TracedMaterialResponse{
			Lot:      Lot(m.Lot),
			Product:  Product(m.Product),
			Quantity: m.Quantity,
		})
	}
	out := ReverseTraceResponse{
		Lot:       Lot(t.Lot),
		Product:   Product(t.Product),
		Materials: materials,
	}
	if t.Order != nil {
		o := Order(t.Order)
		out.Order = &o
	}
	return out
}

// FullTraceResponse ambas direcciones de una vez.
type FullTraceResponse struct {
	Forward ForwardTraceResponse `json:"forward"`
	Reverse ReverseTraceResponse `json:"reverse"`
}

// CustomerTraceResponse historial de un cliente.
type CustomerTraceResponse struct {
	Customer  CustomerResponse   `json:"customer"`
	Shipments []ShipmentResponse `json:"shipments"`
	Returns   []ReturnResponse   `json:"returns"`
}

// CustomerTrace convierte el historial de un cliente.
func CustomerTrace(t *traceability.CustomerTrace) CustomerTraceResponse {
	return CustomerTraceResponse{
		Customer:  Customer(t.Customer),
		Shipments: Shipments(t.Shipments),
		Returns:   Returns(t.Returns),
	}
}
