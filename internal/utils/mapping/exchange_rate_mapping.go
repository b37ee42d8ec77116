package mapping

import (
	"github.com/seoulfx/exchange_shop_backend/internal/core/domain"
	"github.com/seoulfx/exchange_shop_backend/internal/models"
)

// ToModelExchangeRate converts a domain RateRecord to a model ExchangeRate
func ToModelExchangeRate(d domain.RateRecord) models.ExchangeRate {
	return models.ExchangeRate{
		ExchangeRateID:   d.RateID,
		FromCurrencyCode: string(d.FromCurrency),
		ToCurrencyCode:   string(d.ToCurrency),
		Denomination:     d.Denomination,
		BuyRate:          d.BuyRate,
		SellRate:         d.SellRate,
		GoldShopRate:     d.GoldShopRate,
		Active:           d.Active,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain RateRecord
func ToDomainExchangeRate(m models.ExchangeRate) domain.RateRecord {
	return domain.RateRecord{
		RateID:       m.ExchangeRateID,
		FromCurrency: domain.CurrencyCode(m.FromCurrencyCode),
		ToCurrency:   domain.CurrencyCode(m.ToCurrencyCode),
		Denomination: m.Denomination,
		BuyRate:      m.BuyRate,
		SellRate:     m.SellRate,
		GoldShopRate: m.GoldShopRate,
		Active:       m.Active,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
