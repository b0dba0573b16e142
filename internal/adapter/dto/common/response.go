package common

// ListResponse wraps list payloads with their total count
type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}
