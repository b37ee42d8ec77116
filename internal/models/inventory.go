package models

// DenominationStock is one row of the physical note inventory: how many notes
// of one face value the shop holds for a currency.
type DenominationStock struct {
	CurrencyCode string `json:"currencyCode"`
	Denomination string `json:"denomination"` // face value as a decimal string
	NoteCount    int64  `json:"noteCount"`
	AuditFields
}
