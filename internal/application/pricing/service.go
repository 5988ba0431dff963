package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/gcc-cost-api/internal/domain"
)

// Conversion constants for the hourly USD figure.
const (
	hoursPerMonth = 120
	usdToINR      = 85
)

// CityCostStore reads per-city cost components.
type CityCostStore interface {
	Get(ctx context.Context, city string) (*domain.CityCost, error)
	Scan(ctx context.Context) ([]domain.CityCost, error)
}

// PlanRateStore reads the per-headcount-band plan rates.
type PlanRateStore interface {
	Scan(ctx context.Context) ([]domain.PlanRate, error)
}

type Service interface {
	Calculate(ctx context.Context, req domain.CalcRequest) (*domain.CalcResult, error)
	CitiesByTier(ctx context.Context, tier string) ([]string, error)
	PlanRanges(ctx context.Context) (map[string]domain.PlanRange, error)
}

type service struct {
	cityCosts CityCostStore
	planRates PlanRateStore
}

func NewService(cityCosts CityCostStore, planRates PlanRateStore) Service {
	return &service{cityCosts: cityCosts, planRates: planRates}
}

func (s *service) Calculate(ctx context.Context, req domain.CalcRequest) (*domain.CalcResult, error) {
	if req.Headcount <= 0 {
		return nil, fmt.Errorf("headcount must be positive: %w", domain.ErrBadRequest)
	}

	res := &domain.CalcResult{
		Headcount: req.Headcount,
		Tier:      req.Tier,
		City:      req.City,
		Plan:      req.Plan,
	}

	if req.RealEstate || req.ITInfra {
		cost, err := s.cityCost(ctx, req.City, req.Tier)
		if err != nil {
			return nil, err
		}
		if req.RealEstate {
			res.RealEstateCost = cost.RealEstateINRPM * float64(req.Headcount)
			res.TotalCost += res.RealEstateCost
		}
		if req.ITInfra {
			res.ITInfraCost = cost.ITInfraINRPM * float64(req.Headcount)
			res.TotalCost += res.ITInfraCost
		}
	}

	if req.Enabling || req.Technology {
		enab, tech, err := s.planCosts(ctx, req.Headcount, req.Plan)
		if err != nil {
			return nil, err
		}
		if req.Enabling {
			res.EnablingCost = enab
			res.TotalCost += enab
		}
		if req.Technology {
			res.TechnologyCost = tech
			res.TotalCost += tech
		}
	}

	res.HourlyCostPerHeadUSD = res.TotalCost / float64(req.Headcount) / hoursPerMonth / usdToINR
	res.PlanDetails = PlanDetails(req.Plan, req.Headcount)
	return res, nil
}

// cityCost resolves the per-seat components for a city, falling back to the
// tier average when the city has no row of its own.
func (s *service) cityCost(ctx context.Context, city, tier string) (*domain.CityCost, error) {
	cost, err := s.cityCosts.Get(ctx, city)
	if err == nil {
		return cost, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load city cost: %w", err)
	}

	all, err := s.cityCosts.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan city costs: %w", err)
	}
	var re, it float64
	n := 0
	for _, c := range all {
		if c.Tier != tier {
			continue
		}
		re += c.RealEstateINRPM
		it += c.ITInfraINRPM
		n++
	}
	avg := &domain.CityCost{City: city, Tier: tier}
	if n > 0 {
		avg.RealEstateINRPM = re / float64(n)
		avg.ITInfraINRPM = it / float64(n)
	}
	return avg, nil
}

// planCosts returns the enabling-functions and technology costs for the
// headcount band containing headcount. Headcounts above the top band use
// the top band's rates.
func (s *service) planCosts(ctx context.Context, headcount int, plan string) (enab, tech float64, err error) {
	rates, err := s.planRates.Scan(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("scan plan rates: %w", err)
	}
	if len(rates) == 0 {
		return 0, 0, nil
	}

	var selected *domain.PlanRate
	top := &rates[0]
	for i := range rates {
		r := &rates[i]
		if r.MinHC <= headcount && headcount <= r.MaxHC {
			selected = r
			break
		}
		if r.MaxHC > top.MaxHC {
			top = r
		}
	}
	if selected == nil {
		selected = top
	}

	switch plan {
	case domain.PlanBasic:
		return selected.EnabBasic, selected.TechBasic, nil
	case domain.PlanPremium:
		return selected.EnabPremium, selected.TechPremium, nil
	case domain.PlanAdvance:
		return selected.EnabAdvance, selected.TechAdvance, nil
	default:
		return 0, 0, fmt.Errorf("unknown plan %q: %w", plan, domain.ErrBadRequest)
	}
}

func (s *service) CitiesByTier(ctx context.Context, tier string) ([]string, error) {
	all, err := s.cityCosts.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan city costs: %w", err)
	}
	var cities []string
	for _, c := range all {
		if c.Tier == tier {
			cities = append(cities, c.City)
		}
	}
	return cities, nil
}

// PlanRanges reports, per plan, the min and max combined enabling+technology
// cost across all headcount bands.
func (s *service) PlanRanges(ctx context.Context) (map[string]domain.PlanRange, error) {
	rates, err := s.planRates.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan plan rates: %w", err)
	}

	ranges := make(map[string]domain.PlanRange, 3)
	for _, plan := range []string{domain.PlanBasic, domain.PlanPremium, domain.PlanAdvance} {
		var pr domain.PlanRange
		for i, r := range rates {
			var combined float64
			switch plan {
			case domain.PlanBasic:
				combined = r.EnabBasic + r.TechBasic
			case domain.PlanPremium:
				combined = r.EnabPremium + r.TechPremium
			case domain.PlanAdvance:
				combined = r.EnabAdvance + r.TechAdvance
			}
			if i == 0 || combined < pr.Min {
				pr.Min = combined
			}
			if i == 0 || combined > pr.Max {
				pr.Max = combined
			}
		}
		ranges[plan] = pr
	}
	return ranges, nil
}
