package types

// ProblemDetails is the body of every failure response.
type ProblemDetails struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
}
