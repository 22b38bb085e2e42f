package dto

// TushareRequest is the generic request envelope of the Tushare HTTP API.
type TushareRequest struct {
	APIName string            `json:"api_name"`
	Token   string            `json:"token"`
	Params  map[string]string `json:"params"`
	Fields  string            `json:"fields,omitempty"`
}

// TushareResponse is the generic response envelope. Rows come back as a
// field-name list plus positional item arrays.
type TushareResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data TushareDataBody `json:"data"`
}

// TushareDataBody holds the columnar payload of a Tushare response.
type TushareDataBody struct {
	Fields []string        `json:"fields"`
	Items  [][]interface{} `json:"items"`
}
