package push

type subscribeInput struct {
	Body subscribeRequest
}

type subscribeRequest struct {
	UserID   string `json:"user_id,omitempty" doc:"Technician the subscription belongs to"`
	Endpoint string `json:"endpoint" minLength:"1" doc:"Push service endpoint URL"`
	P256dh   string `json:"p256dh" minLength:"1" doc:"Client public key"`
	Auth     string `json:"auth" minLength:"1" doc:"Client auth secret"`
}

type unsubscribeInput struct {
	Body unsubscribeRequest
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint" minLength:"1"`
}

type output struct {
	Body response
}

type response struct {
	Status string `json:"status"`
}
