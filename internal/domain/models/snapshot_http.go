package models

// Requests for the TA HTTP endpoints. Defined in domain for consistency and reuse.

type TaRequest struct {
	Periods string `query:"periods" json:"periods" default:"15m,1h,4h,1d"`
}

type BackfillRequest struct {
	Exchange string `query:"exchange" json:"exchange" validate:"required"`
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	Period   string `query:"period" json:"period" default:"1h"`
	Date     string `query:"date" json:"date" validate:"required"`
}
