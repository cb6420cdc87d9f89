package models

// ComplaintIssue is one ranked complaint category for a servicer.
type ComplaintIssue struct {
	Issue string
	Count int
}

// ServicerRiskProfile summarizes consumer-complaint exposure for one servicer.
type ServicerRiskProfile struct {
	Servicer         string
	TotalComplaints  int
	RecentComplaints int // trailing window, provider-defined
	TopIssues        []ComplaintIssue
	RiskScore        int // 0..100
}
