package pricing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcc-cost-api/internal/domain"
	"github.com/gcc-cost-api/internal/infrastructure/memory"
)

func seededStores(t *testing.T) (*memory.CityCostStore, *memory.PlanRateStore) {
	t.Helper()
	ctx := context.Background()

	cities := memory.NewCityCostStore()
	for _, c := range []domain.CityCost{
		{City: "Bengaluru", Tier: "Tier 1", RealEstateINRPM: 12000, ITInfraINRPM: 5000},
		{City: "Mumbai", Tier: "Tier 1", RealEstateINRPM: 14000, ITInfraINRPM: 5400},
		{City: "Jaipur", Tier: "Tier 2", RealEstateINRPM: 7000, ITInfraINRPM: 3600},
		{City: "Indore", Tier: "Tier 2", RealEstateINRPM: 6000, ITInfraINRPM: 3400},
	} {
		require.NoError(t, cities.Put(ctx, &c))
	}

	rates := memory.NewPlanRateStore()
	for _, r := range []domain.PlanRate{
		{RangeID: "0-50", MinHC: 0, MaxHC: 50, EnabBasic: 100000, EnabPremium: 150000, EnabAdvance: 200000, TechBasic: 80000, TechPremium: 120000, TechAdvance: 160000},
		{RangeID: "51-100", MinHC: 51, MaxHC: 100, EnabBasic: 180000, EnabPremium: 260000, EnabAdvance: 340000, TechBasic: 140000, TechPremium: 210000, TechAdvance: 280000},
		{RangeID: "101-1000", MinHC: 101, MaxHC: 1000, EnabBasic: 900000, EnabPremium: 1300000, EnabAdvance: 1700000, TechBasic: 700000, TechPremium: 1050000, TechAdvance: 1400000},
	} {
		require.NoError(t, rates.Put(ctx, &r))
	}
	return cities, rates
}

func TestCalculateAllComponents(t *testing.T) {
	cities, rates := seededStores(t)
	svc := NewService(cities, rates)

	res, err := svc.Calculate(context.Background(), domain.CalcRequest{
		Headcount:  100,
		Tier:       "Tier 1",
		City:       "Bengaluru",
		Plan:       domain.PlanPremium,
		RealEstate: true,
		ITInfra:    true,
		Enabling:   true,
		Technology: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1200000.0, res.RealEstateCost)
	assert.Equal(t, 500000.0, res.ITInfraCost)
	assert.Equal(t, 260000.0, res.EnablingCost)
	assert.Equal(t, 210000.0, res.TechnologyCost)
	assert.Equal(t, 2170000.0, res.TotalCost)

	// total / headcount / 120 / 85
	assert.InDelta(t, 2170000.0/100/120/85, res.HourlyCostPerHeadUSD, 1e-9)

	require.NotNil(t, res.PlanDetails)
	assert.Equal(t, domain.PlanPremium, res.PlanDetails.Name)
}

func TestCalculateUnknownCityFallsBackToTierAverage(t *testing.T) {
	cities, rates := seededStores(t)
	svc := NewService(cities, rates)

	res, err := svc.Calculate(context.Background(), domain.CalcRequest{
		Headcount:  10,
		Tier:       "Tier 2",
		City:       "Coimbatore",
		Plan:       domain.PlanBasic,
		RealEstate: true,
		ITInfra:    true,
	})
	require.NoError(t, err)

	// Tier 2 averages: real estate (7000+6000)/2, IT (3600+3400)/2.
	assert.Equal(t, 65000.0, res.RealEstateCost)
	assert.Equal(t, 35000.0, res.ITInfraCost)
}

func TestCalculateUnknownCityUnknownTierIsZero(t *testing.T) {
	cities, rates := seededStores(t)
	svc := NewService(cities, rates)

	res, err := svc.Calculate(context.Background(), domain.CalcRequest{
		Headcount:  10,
		Tier:       "Tier 9",
		City:       "Atlantis",
		Plan:       domain.PlanBasic,
		RealEstate: true,
	})
	require.NoError(t, err)
	assert.Zero(t, res.RealEstateCost)
	assert.Zero(t, res.TotalCost)
}

func TestCalculateHeadcountAboveTopBandUsesTopBand(t *testing.T) {
	cities, rates := seededStores(t)
	svc := NewService(cities, rates)

	res, err := svc.Calculate(context.Background(), domain.CalcRequest{
		Headcount: 5000,
		City:      "Bengaluru",
		Tier:      "Tier 1",
		Plan:      domain.PlanAdvance,
		Enabling:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1700000.0, res.EnablingCost)
}

func TestCalculateBandEdgeAtFifty(t *testing.T) {
	cities, rates := seededStores(t)
	svc := NewService(cities, rates)

	atMax, err := svc.Calculate(context.Background(), domain.CalcRequest{
		Headcount:  50,
		City:       "Bengaluru",
		Tier:       "Tier 1",
		Plan:       domain.PlanBasic,
		Enabling:   true,
		Technology: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 100000.0, atMax.EnablingCost)
	assert.Equal(t, 80000.0, atMax.TechnologyCost)

	// one more head crosses into the 51-100 band
	nextBand, err := svc.Calculate(context.Background(), domain.CalcRequest{
		Headcount:  51,
		City:       "Bengaluru",
		Tier:       "Tier 1",
		Plan:       domain.PlanBasic,
		Enabling:   true,
		Technology: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 180000.0, nextBand.EnablingCost)
	assert.Equal(t, 140000.0, nextBand.TechnologyCost)
}

func TestCalculateNoComponentsSelected(t *testing.T) {
	cities, rates := seededStores(t)
	svc := NewService(cities, rates)

	res, err := svc.Calculate(context.Background(), domain.CalcRequest{
		Headcount: 50,
		City:      "Bengaluru",
		Tier:      "Tier 1",
		Plan:      domain.PlanBasic,
	})
	require.NoError(t, err)
	assert.Zero(t, res.TotalCost)
	assert.Zero(t, res.HourlyCostPerHeadUSD)
}

func TestCalculateRejectsNonPositiveHeadcount(t *testing.T) {
	cities, rates := seededStores(t)
	svc := NewService(cities, rates)

	_, err := svc.Calculate(context.Background(), domain.CalcRequest{
		Headcount: 0, City: "Bengaluru", Plan: domain.PlanBasic,
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestCitiesByTier(t *testing.T) {
	cities, rates := seededStores(t)
	svc := NewService(cities, rates)

	got, err := svc.CitiesByTier(context.Background(), "Tier 2")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Jaipur", "Indore"}, got)

	got, err = svc.CitiesByTier(context.Background(), "Tier 3")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPlanRanges(t *testing.T) {
	cities, rates := seededStores(t)
	svc := NewService(cities, rates)

	ranges, err := svc.PlanRanges(context.Background())
	require.NoError(t, err)

	basic := ranges[domain.PlanBasic]
	assert.Equal(t, 180000.0, basic.Min)
	assert.Equal(t, 1600000.0, basic.Max)

	advance := ranges[domain.PlanAdvance]
	assert.Equal(t, 360000.0, advance.Min)
	assert.Equal(t, 3100000.0, advance.Max)
}

func TestPlanDetailsCatalog(t *testing.T) {
	d := PlanDetails(domain.PlanBasic, 30)
	require.NotNil(t, d)
	assert.Equal(t, domain.PlanBasic, d.Name)

	d = PlanDetails(domain.PlanAdvance, 2000)
	require.NotNil(t, d)
	assert.Equal(t, domain.PlanAdvance, d.Name)

	assert.Nil(t, PlanDetails("Enterprise", 10))

	catalog := Catalog()
	assert.Len(t, catalog, 3)
	for _, bands := range catalog {
		assert.Len(t, bands, 5)
	}
}

func TestPlanDetailsDifferPerBand(t *testing.T) {
	mid := PlanDetails(domain.PlanBasic, 75)
	require.NotNil(t, mid)
	large := PlanDetails(domain.PlanBasic, 150)
	require.NotNil(t, large)

	assert.NotEqual(t, mid.EnablingFunctions, large.EnablingFunctions)
	assert.NotEqual(t, mid.Technology, large.Technology)

	// adjacent bands split at 500/501
	low := PlanDetails(domain.PlanAdvance, 500)
	high := PlanDetails(domain.PlanAdvance, 501)
	require.NotNil(t, low)
	require.NotNil(t, high)
	assert.NotEqual(t, low.Technology, high.Technology)
}
