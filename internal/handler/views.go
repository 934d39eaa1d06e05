package handler

import (
	"time"

	"github.com/SmartDevNG/smartdev_api/internal/models"
	"github.com/SmartDevNG/smartdev_api/internal/service"
	"github.com/SmartDevNG/smartdev_api/internal/utils"
)

type selectionView struct {
	Service        models.Service       `json:"service"`
	ProviderID     string               `json:"providerId"`
	ProductID      string               `json:"productId,omitempty"`
	Denomination   int                  `json:"denomination,omitempty"`
	CustomAmount   string               `json:"customAmount,omitempty"`
	MeterType      models.MeterType     `json:"meterType,omitempty"`
	Recipient      string               `json:"recipient"`
	PaymentMethod  models.PaymentMethod `json:"paymentMethod"`
	HasSecret      bool                 `json:"hasSecret"`
	Amount         *string              `json:"amount"`
	AmountEditable bool                 `json:"amountEditable"`
}

type reasonView struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type transactionView struct {
	TransactionID  string `json:"transactionId"`
	Classification string `json:"classification"`
	Type           string `json:"type"`
	Description    string `json:"description"`
	ProviderID     string `json:"providerId"`
	Recipient      string `json:"recipient"`
	Amount         string `json:"amount"`
	PaymentMethod  string `json:"paymentMethod"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt"`
}

type purchaseView struct {
	SessionID   string           `json:"sessionId"`
	Selection   selectionView    `json:"selection"`
	State       string           `json:"state"`
	Error       *reasonView      `json:"error,omitempty"`
	Transaction *transactionView `json:"transaction,omitempty"`
	CreatedAt   string           `json:"createdAt"`
}

func toPurchaseView(snap service.SessionSnapshot) purchaseView {
	sel := snap.Selection
	view := purchaseView{
		SessionID: snap.ID,
		Selection: selectionView{
			Service:        sel.Service,
			ProviderID:     sel.ProviderID,
			ProductID:      sel.ProductID,
			Denomination:   sel.Denomination,
			CustomAmount:   sel.CustomAmount,
			Recipient:      sel.Recipient,
			PaymentMethod:  sel.PaymentMethod,
			HasSecret:      sel.Secret != "",
			AmountEditable: sel.Service == models.ServiceTV || sel.Service == models.ServiceElectricity,
		},
		State:     string(snap.Flow.State),
		CreatedAt: snap.CreatedAt.In(utils.WAT).Format(time.RFC3339),
	}
	if sel.Service == models.ServiceElectricity {
		view.Selection.MeterType = sel.MeterType
	}
	if sel.Amount.Valid {
		amount := sel.Amount.Decimal.StringFixed(2)
		view.Selection.Amount = &amount
	}
	if snap.Flow.Err != nil {
		view.Error = &reasonView{
			Code:    snap.Flow.Err.Error(),
			Message: utils.ReasonMessage(snap.Flow.Err),
		}
	}
	if rec := snap.Flow.Record; rec != nil {
		view.Transaction = &transactionView{
			TransactionID:  rec.TransactionID,
			Classification: string(rec.Classification),
			Type:           rec.Type,
			Description:    rec.Description,
			ProviderID:     rec.ProviderID,
			Recipient:      rec.Recipient,
			Amount:         rec.Amount.StringFixed(2),
			PaymentMethod:  string(rec.PaymentMethod),
			Status:         string(rec.Status),
			CreatedAt:      rec.CreatedAt.In(utils.WAT).Format(time.RFC3339),
		}
	}
	return view
}

type providerView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Service      string `json:"service"`
	DiscountRate string `json:"discountRate"`
	Discount     string `json:"discount"`
}

func toProviderViews(providers []models.Provider) []providerView {
	out := make([]providerView, 0, len(providers))
	for _, p := range providers {
		out = append(out, providerView{
			ID:           p.ID,
			Name:         p.Name,
			Service:      string(p.Service),
			DiscountRate: p.DiscountRate.String(),
			Discount:     p.DiscountRate.Shift(2).String() + "%",
		})
	}
	return out
}
