package dto

type Citation struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Answer is free text returned as markdown, with the web sources the model grounded it on.
type Answer struct {
	Markdown  string     `json:"markdown"`
	Citations []Citation `json:"citations"`
}

type SafetySheetInput struct {
	Name      string `json:"name" binding:"required"`
	CASNumber string `json:"cas_number"`
	Formula   string `json:"formula"`
}

type ProductInfoInput struct {
	Query string `json:"query" binding:"required"`
}

type ProductInfo struct {
	Name      string `json:"name"`
	CASNumber string `json:"cas_number"`
	Formula   string `json:"formula"`
	Unit      string `json:"unit"`
	Hazards   string `json:"hazards"`
}

type ExtractedProduct struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
}

type ImageInput struct {
	Data     []byte
	MIMEType string
}
