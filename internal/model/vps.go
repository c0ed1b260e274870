package model

// VPSInstance describes a provisioned VPS with its initial credentials.
type VPSInstance struct {
	ID       string `json:"id"`
	Hostname string `json:"hostname"`
	IP       string `json:"ip"`
	Username string `json:"username"`
	Password string `json:"password"`
	OS       string `json:"os"`
	PlanName string `json:"plan_name"`
}

// VPSSetupResult is the backend's provisioning result for an order.
type VPSSetupResult struct {
	OrderNumber string        `json:"order_number"`
	Instances   []VPSInstance `json:"instances"`
}
