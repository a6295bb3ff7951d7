package models

// RawLineItem is one food line extracted from a receipt, normalized from
// whichever response format the model produced.
type RawLineItem struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Price    float64 `json:"price"`
	// ExpirationDate is a YYYY-MM-DD date, empty when the receipt had none.
	ExpirationDate string `json:"expiration_date,omitempty"`
}

// ReceiptScan is the outcome of extracting (and optionally reconciling) a receipt.
type ReceiptScan struct {
	ObjectKey string           `json:"object_key,omitempty"`
	ImageURL  string           `json:"image_url,omitempty"`
	Items     []RawLineItem    `json:"items"`
	Result    *ReconcileResult `json:"result,omitempty"`
}
