package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Service enumerates the purchasable utility services.
type Service string

const (
	ServiceData        Service = "data"
	ServiceAirtime     Service = "airtime"
	ServiceTV          Service = "tv"
	ServiceElectricity Service = "electricity"
)

// AllServices lists the services in storefront order.
var AllServices = []Service{ServiceData, ServiceAirtime, ServiceTV, ServiceElectricity}

// ParseService maps a case-insensitive service name to a Service.
func ParseService(raw string) (Service, bool) {
	s := Service(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case ServiceData, ServiceAirtime, ServiceTV, ServiceElectricity:
		return s, true
	}
	return "", false
}

// MeterType distinguishes electricity meters.
type MeterType string

const (
	MeterPrepaid  MeterType = "prepaid"
	MeterPostpaid MeterType = "postpaid"
)

// ParseMeterType maps a case-insensitive meter type name to a MeterType.
func ParseMeterType(raw string) (MeterType, bool) {
	m := MeterType(strings.ToLower(strings.TrimSpace(raw)))
	switch m {
	case MeterPrepaid, MeterPostpaid:
		return m, true
	}
	return "", false
}

// MeterTypeOption is the displayable form of a MeterType.
type MeterTypeOption struct {
	ID   MeterType `json:"id"`
	Name string    `json:"name"`
}

// PaymentMethod is the funding source chosen for a purchase.
type PaymentMethod string

const (
	PaymentWallet PaymentMethod = "WALLET"
	PaymentCard   PaymentMethod = "CARD"
	PaymentBank   PaymentMethod = "BANK"
)

// ParsePaymentMethod maps a case-insensitive payment method to a PaymentMethod.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	p := PaymentMethod(strings.ToUpper(strings.TrimSpace(raw)))
	switch p {
	case PaymentWallet, PaymentCard, PaymentBank:
		return p, true
	}
	return "", false
}

// Provider is a network or utility company offering one service.
// DiscountRate is a fraction in [0, 1).
type Provider struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Service      Service         `json:"service"`
	DiscountRate decimal.Decimal `json:"discountRate"`
}

// Product is a fixed-price catalog entry (data bundle or TV package).
// Price is in whole naira.
type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProviderID string `json:"providerId"`
	Price      int64  `json:"price"`
}
