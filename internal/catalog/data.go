package catalog

import "github.com/SmartDevNG/smartdev_api/internal/models"

// defaultSpec is the storefront catalog. Prices are in naira.
var defaultSpec = Spec{
	Providers: map[models.Service][]ProviderSpec{
		models.ServiceData: {
			{ID: "mtn", Name: "MTN", Discount: "5.5%"},
			{ID: "airtel", Name: "Airtel", Discount: "5%"},
			{ID: "glo", Name: "Glo", Discount: "3%"},
			{ID: "9mobile", Name: "9mobile", Discount: "4%"},
		},
		models.ServiceAirtime: {
			{ID: "mtn", Name: "MTN", Discount: "3%"},
			{ID: "airtel", Name: "Airtel", Discount: "2.5%"},
			{ID: "glo", Name: "Glo", Discount: "2%"},
			{ID: "9mobile", Name: "9mobile", Discount: "2%"},
		},
		models.ServiceTV: {
			{ID: "dstv", Name: "DSTV"},
			{ID: "gotv", Name: "GOtv"},
			{ID: "startimes", Name: "Startimes"},
		},
		models.ServiceElectricity: {
			{ID: "ikeja", Name: "IKEDC"},
			{ID: "eko", Name: "EKEDC"},
			{ID: "phed", Name: "PHED"},
			{ID: "kedco", Name: "KEDCO"},
			{ID: "aedc", Name: "AEDC"},
		},
	},
	Products: map[models.Service]map[string][]ProductSpec{
		models.ServiceData: {
			"mtn": {
				{ID: "mtn-500mb", Name: "500MB - 7 days", Price: 250},
				{ID: "mtn-1gb", Name: "1GB - 30 days", Price: 490},
				{ID: "mtn-2gb", Name: "2GB - 30 days", Price: 950},
			},
			"airtel": {
				{ID: "airtel-500mb", Name: "500MB - 7 days", Price: 230},
				{ID: "airtel-1gb", Name: "1GB - 30 days", Price: 450},
				{ID: "airtel-2gb", Name: "2GB - 30 days", Price: 880},
			},
			"glo": {
				{ID: "glo-500mb", Name: "500MB - 7 days", Price: 200},
				{ID: "glo-1gb", Name: "1GB - 30 days", Price: 450},
				{ID: "glo-2gb", Name: "2GB - 30 days", Price: 900},
			},
			"9mobile": {
				{ID: "9mobile-500mb", Name: "500MB - 7 days", Price: 240},
				{ID: "9mobile-1gb", Name: "1GB - 30 days", Price: 480},
				{ID: "9mobile-2gb", Name: "2GB - 30 days", Price: 920},
			},
		},
		models.ServiceTV: {
			"dstv": {
				{ID: "premium", Name: "Premium", Price: 24500},
				{ID: "compact-plus", Name: "Compact Plus", Price: 16600},
				{ID: "compact", Name: "Compact", Price: 10500},
			},
			"gotv": {
				{ID: "max", Name: "GOtv Max", Price: 4850},
				{ID: "jinja", Name: "GOtv Jinja", Price: 2250},
				{ID: "smallie", Name: "GOtv Smallie", Price: 900},
			},
			"startimes": {
				{ID: "nova", Name: "Nova", Price: 900},
				{ID: "basic", Name: "Basic", Price: 1700},
				{ID: "smart", Name: "Smart", Price: 2200},
			},
		},
	},
	Denominations: map[models.Service][]int{
		models.ServiceAirtime: {50, 100, 200, 500, 1000},
	},
	MeterTypes: []models.MeterTypeOption{
		{ID: models.MeterPrepaid, Name: "Prepaid Meter"},
		{ID: models.MeterPostpaid, Name: "Postpaid Meter"},
	},
}

var defaultCatalog = mustNew(defaultSpec)

// Default returns the process-wide storefront catalog.
func Default() *Catalog {
	return defaultCatalog
}

func mustNew(spec Spec) *Catalog {
	c, err := New(spec)
	if err != nil {
		panic("catalog: " + err.Error())
	}
	return c
}
