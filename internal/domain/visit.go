package domain

import "time"

// Visit is one logged calculation. PK: visit_id, GSI on user_id.
type Visit struct {
	VisitID    string    `json:"visit_id" dynamodbav:"visit_id"`
	UserID     string    `json:"user_id" dynamodbav:"user_id"`
	Headcount  int       `json:"headcount" dynamodbav:"headcount"`
	City       string    `json:"city" dynamodbav:"city"`
	Tier       string    `json:"tier" dynamodbav:"tier"`
	Plan       string    `json:"plan" dynamodbav:"plan"`
	RealEstate bool      `json:"real_estate" dynamodbav:"real_estate"`
	ITInfra    bool      `json:"it_infra" dynamodbav:"it_infra"`
	Enabling   bool      `json:"enabling" dynamodbav:"enabling"`
	Technology bool      `json:"technology" dynamodbav:"technology"`
	TotalCost  float64   `json:"total_cost" dynamodbav:"total_cost"`
	VisitTime  time.Time `json:"visit_time" dynamodbav:"visit_time"`
}

// VisitStats is the per-user usage summary. PK: user_id.
type VisitStats struct {
	UserID            string    `json:"user_id" dynamodbav:"user_id"`
	VisitCount        int       `json:"visit_count" dynamodbav:"visit_count"`
	FirstVisit        time.Time `json:"first_visit" dynamodbav:"first_visit"`
	LastVisit         time.Time `json:"last_visit" dynamodbav:"last_visit"`
	TotalCalculations int       `json:"total_calculations" dynamodbav:"total_calculations"`
}
