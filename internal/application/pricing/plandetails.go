package pricing

import "github.com/gcc-cost-api/internal/domain"

// headcount band labels used by the plan catalog.
const (
	bandUpTo50   = "0-50"
	bandUpTo100  = "51-100"
	bandUpTo250  = "101-250"
	bandUpTo500  = "251-500"
	bandUpTo1000 = "501-1000"
)

func bandFor(headcount int) string {
	switch {
	case headcount <= 50:
		return bandUpTo50
	case headcount <= 100:
		return bandUpTo100
	case headcount <= 250:
		return bandUpTo250
	case headcount <= 500:
		return bandUpTo500
	default:
		return bandUpTo1000
	}
}

const managedWorkspace = "Managed Workspace"

const coreITInfra = "Hardware, Networking, Security solutions, Cloud, IT Support, " +
	"Collaboration tools, Data-centre, Disaster-recovery backups, Compliance & audits, " +
	"End-user peripherals, cybersecurity (SIEM/DLP), Biometric attendance/access"

const advancedITInfra = "Hardware, Networking, Security solutions, Cloud/SaaS, IT Support & AMC, " +
	"Collaboration tools, Data-centre/Colocation, Disaster-recovery backups, Compliance & audits, " +
	"End-user peripherals, Advanced cybersecurity (SIEM/DLP), Biometric attendance/access"

func basicEntry(enabling, tech string) domain.PlanDetails {
	return domain.PlanDetails{
		Name:              domain.PlanBasic,
		Description:       "Essential GCC setup with core functionality",
		RealEstate:        managedWorkspace,
		ITInfra:           coreITInfra,
		EnablingFunctions: enabling,
		Technology:        tech,
	}
}

func premiumEntry(enabling, tech string) domain.PlanDetails {
	return domain.PlanDetails{
		Name:              domain.PlanPremium,
		Description:       "Enhanced GCC setup with additional features",
		RealEstate:        managedWorkspace,
		ITInfra:           advancedITInfra,
		EnablingFunctions: enabling,
		Technology:        tech,
	}
}

func advanceEntry(enabling, tech string) domain.PlanDetails {
	return domain.PlanDetails{
		Name:              domain.PlanAdvance,
		Description:       "Comprehensive GCC setup with full customization",
		RealEstate:        managedWorkspace,
		ITInfra:           advancedITInfra,
		EnablingFunctions: enabling,
		Technology:        tech,
	}
}

var planCatalog = map[string]map[string]domain.PlanDetails{
	domain.PlanBasic: {
		bandUpTo50:   basicEntry("HR/Admin, Finance, IT Support", "Zoho People, Zoho Recruit, Zoho Books Std, Google Workspace/Slack"),
		bandUpTo100:  basicEntry("HR, Finance, Admin, IT Helpdesk", "Keka (HR+Payroll), QuickBooks Advanced, Slack/Workspace"),
		bandUpTo250:  basicEntry("HR, Finance, Admin, IT", "Darwinbox, Zoho Books Pro, Slack/Workspace"),
		bandUpTo500:  basicEntry("HRBP + Ops, Finance, Admin, IT", "Darwinbox, NetSuite ERP, Slack"),
		bandUpTo1000: basicEntry("Full Enabling COEs with Mid Mgmt layers (HR, Finance, Admin, IT)", "SAP SuccessFactors, SAP B1/Oracle ERP, Slack"),
	},
	domain.PlanPremium: {
		bandUpTo50:   premiumEntry("Marketing, Legal, Finance/Vendor Mgmt", "Zoho People, Zoho Recruit, Zoho Books Std, Zoho Campaigns, Zoho Contracts, Slack/Workspace"),
		bandUpTo100:  premiumEntry("Marketing, Legal, Finance/Vendor Mgmt, Other", "Keka, QuickBooks Adv, HubSpot Starter, Zoho Contracts, Slack/Workspace"),
		bandUpTo250:  premiumEntry("Marketing, Legal, Finance/Vendor Mgmt, Other", "Darwinbox, Zoho Books Pro, HubSpot Pro, DocuSign CLM, Slack"),
		bandUpTo500:  premiumEntry("Marketing, Legal, Finance/Vendor Mgmt, Other", "Darwinbox, NetSuite ERP, HubSpot Pro, DocuSign CLM, Slack"),
		bandUpTo1000: premiumEntry("Marketing, Legal, Finance/Vendor Mgmt, Other", "SAP SuccessFactors, SAP B1/Oracle ERP, Salesforce Marketing Cloud, DocuSign CLM, Slack"),
	},
	domain.PlanAdvance: {
		bandUpTo50:   advanceEntry("Marketing, Legal, Finance, Vendor Mgmt", "Keka, QuickBooks Adv, HubSpot Starter, DocuSign CLM, Slack + Notion"),
		bandUpTo100:  advanceEntry("Marketing, Legal, Finance/Vendor Mgmt, Other", "Darwinbox, QuickBooks Adv, HubSpot Pro, DocuSign CLM, Slack + Notion"),
		bandUpTo250:  advanceEntry("Marketing, Legal, Finance/Vendor Mgmt, Other", "Darwinbox, NetSuite ERP, Marketo Pro, DocuSign CLM, Slack + Notion"),
		bandUpTo500:  advanceEntry("Marketing, Legal, Finance/Vendor Mgmt, Other", "SAP SuccessFactors, SAP B1 ERP, Marketo Pro, Agiloft CLM, Slack Grid + Notion"),
		bandUpTo1000: advanceEntry("Marketing, Legal, Finance/Vendor Mgmt, Other", "SAP SuccessFactors, Oracle ERP Cloud, Salesforce Marketing Cloud, Agiloft CLM, Slack Grid + Notion"),
	},
}

// PlanDetails returns the catalog entry for a plan at a given headcount,
// or nil when the plan is unknown.
func PlanDetails(plan string, headcount int) *domain.PlanDetails {
	bands, ok := planCatalog[plan]
	if !ok {
		return nil
	}
	d, ok := bands[bandFor(headcount)]
	if !ok {
		return nil
	}
	return &d
}

// Catalog returns the full plan catalog keyed by plan then headcount band.
func Catalog() map[string]map[string]domain.PlanDetails {
	out := make(map[string]map[string]domain.PlanDetails, len(planCatalog))
	for plan, bands := range planCatalog {
		b := make(map[string]domain.PlanDetails, len(bands))
		for band, d := range bands {
			b[band] = d
		}
		out[plan] = b
	}
	return out
}
