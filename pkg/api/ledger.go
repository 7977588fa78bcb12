package api

type GetBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetBalancesResponse struct {
	Currency string           `json:"currency"`
	Balances []*MemberBalance `json:"balances"`
}

type SimplifyDebtsRequest struct {
	GroupID string `json:"group_id"`
}

type SimplifyDebtsResponse struct {
	Currency  string      `json:"currency"`
	Transfers []*Transfer `json:"transfers"`
	// Summary is "Everyone is settled up" when Transfers is empty.
	Summary string `json:"summary"`
}

type RecordSettlementRequest struct {
	GroupID string  `json:"group_id"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	Amount  float64 `json:"amount"`
	Note    string  `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type DeleteSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type DeleteSettlementResponse struct{}
