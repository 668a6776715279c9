package emergency

import (
	"fieldsync/internal/domain/emergency"
)

type createInput struct {
	Body createRequest
}

type createRequest struct {
	InterventionID    int64   `json:"intervention_id" doc:"Intervention being escalated"`
	InterventionRef   string  `json:"intervention_ref,omitempty"`
	InterventionLabel string  `json:"intervention_label,omitempty"`
	ClientName        string  `json:"client_name,omitempty"`
	Location          string  `json:"location,omitempty"`
	Description       string  `json:"description,omitempty"`
	BonusAmount       float64 `json:"bonus_amount" doc:"Bonus paid to whoever claims it"`
	Currency          string  `json:"currency,omitempty" doc:"Defaults to CHF"`
	CreatedByUserID   string  `json:"created_by_user_id,omitempty"`
	CreatedByUserName string  `json:"created_by_user_name,omitempty"`
}

type createOutput struct {
	Body emergency.Emergency
}

type listInput struct {
	Status string `query:"status" doc:"Filter by status, e.g. open"`
}

type listOutput struct {
	Body listResponse
}

type listResponse struct {
	Emergencies []emergency.Emergency `json:"emergencies"`
}

type findInput struct {
	ID int64 `path:"id" example:"1" doc:"Emergency ID"`
}

type findOutput struct {
	Body emergency.Emergency
}

type claimInput struct {
	ID   int64 `path:"id" example:"1" doc:"Emergency ID"`
	Body claimRequest
}

type claimRequest struct {
	UserID   string `json:"user_id" minLength:"1" doc:"Claiming technician ID"`
	UserName string `json:"user_name,omitempty" doc:"Claiming technician display name"`
}

type claimOutput struct {
	Body emergency.ClaimResult
}
