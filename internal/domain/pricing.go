package domain

// Plan names as they appear in the pricing dataset.
const (
	PlanBasic   = "Basic"
	PlanPremium = "Premium"
	PlanAdvance = "Advance"
)

// CityCost holds the per-seat monthly INR cost components for one city.
// PK: city.
type CityCost struct {
	City            string  `json:"city" dynamodbav:"city"`
	Tier            string  `json:"tier" dynamodbav:"tier"` // "Tier 1" | "Tier 2" | "Tier 3"
	RealEstateINRPM float64 `json:"real_estate_inr_pm" dynamodbav:"real_estate_inr_pm"`
	ITInfraINRPM    float64 `json:"it_infra_inr_pm" dynamodbav:"it_infra_inr_pm"`
}

// PlanRate holds the enabling-functions and technology costs for one
// headcount band. PK: range_id ("<MinHC>-<MaxHC>").
type PlanRate struct {
	RangeID     string  `json:"range_id" dynamodbav:"range_id"`
	MinHC       int     `json:"min_hc" dynamodbav:"min_hc"`
	MaxHC       int     `json:"max_hc" dynamodbav:"max_hc"`
	EnabBasic   float64 `json:"enab_basic" dynamodbav:"enab_basic"`
	EnabPremium float64 `json:"enab_premium" dynamodbav:"enab_premium"`
	EnabAdvance float64 `json:"enab_advance" dynamodbav:"enab_advance"`
	TechBasic   float64 `json:"tech_basic" dynamodbav:"tech_basic"`
	TechPremium float64 `json:"tech_premium" dynamodbav:"tech_premium"`
	TechAdvance float64 `json:"tech_advance" dynamodbav:"tech_advance"`
}

// PricingDataset is the JSON seed document loaded at startup.
type PricingDataset struct {
	CityCosts []CityCost `json:"city_costs"`
	PlanRates []PlanRate `json:"plan_rates"`
}

// CalcRequest is one cost calculation submission.
type CalcRequest struct {
	UserID     string `json:"user_id"`
	Headcount  int    `json:"headcount" validate:"required,min=1"`
	Tier       string `json:"tier"`
	City       string `json:"city" validate:"required"`
	Plan       string `json:"plan" validate:"required,oneof=Basic Premium Advance"`
	RealEstate bool   `json:"real_estate"`
	ITInfra    bool   `json:"it_infra"`
	Enabling   bool   `json:"enabling"`
	Technology bool   `json:"technology"`
}

// CalcResult is the cost breakdown returned to the client.
type CalcResult struct {
	Headcount            int          `json:"headcount"`
	Tier                 string       `json:"tier"`
	City                 string       `json:"city"`
	Plan                 string       `json:"plan"`
	TotalCost            float64      `json:"total_cost"`
	HourlyCostPerHeadUSD float64      `json:"hourly_cost_per_head_usd"`
	RealEstateCost       float64      `json:"total_real_estate_cost"`
	ITInfraCost          float64      `json:"total_it_infra_cost"`
	EnablingCost         float64      `json:"enab_cost"`
	TechnologyCost       float64      `json:"tech_cost"`
	PlanDetails          *PlanDetails `json:"plan_details,omitempty"`
	VerifiedEmail        string       `json:"verified_email,omitempty"`
	Organization         string       `json:"organization,omitempty"`
}

// PlanDetails describes what a plan includes for a given headcount band.
type PlanDetails struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	RealEstate        string `json:"real_estate"`
	ITInfra           string `json:"it_infra"`
	EnablingFunctions string `json:"enabling_functions"`
	Technology        string `json:"technology"`
}

// PlanRange is the min/max combined enabling+technology cost across all
// headcount bands for one plan.
type PlanRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
